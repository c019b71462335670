package txn

import (
	"math/rand"
)

// Store identifies the business printed in a receipt header.
type Store struct {
	Name    string
	Address []string
	Phone   string
}

// Item is one purchased line of a transaction.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Total     float64
	Category  string
}

// Transaction is the business record a receipt document is laid out from.
// The layout builder treats it as immutable input.
type Transaction struct {
	Store         Store
	Items         []Item
	Subtotal      float64
	Tax           float64
	Total         float64
	ID            string
	Timestamp     string
	PaymentMethod string
}

// Source yields transaction records for a store type. Implementations must
// draw every random decision from the supplied generator so that documents
// regenerate identically under derived seeds.
type Source interface {
	Generate(rng *rand.Rand, storeType string) (Transaction, error)
}

// Store archetypes understood by the default generator and the template
// library.
const (
	StoreGrocery    = "grocery"
	StoreRestaurant = "restaurant"
	StoreRetail     = "retail"
)

// StoreTypes lists the supported archetypes in canonical order.
func StoreTypes() []string {
	return []string{StoreGrocery, StoreRestaurant, StoreRetail}
}

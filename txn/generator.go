package txn

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

type product struct {
	name     string
	min, max float64
	category string
}

var storeNames = map[string][]string{
	StoreGrocery: {
		"FreshMart", "SuperSave Foods", "GreenLeaf Grocery", "ValueMax Market",
		"Corner Pantry", "Daily Harvest Market", "Sunrise Grocers", "MetroFresh",
	},
	StoreRestaurant: {
		"The Golden Fork", "Bella Cucina", "Harbor Grill", "The Rustic Table",
		"Dragon Palace", "Casa Verde", "The Copper Kettle", "Maple & Main Bistro",
	},
	StoreRetail: {
		"Fashion Forward", "TechHaven", "Urban Trend Co", "Summit Outfitters",
		"BrightHome Goods", "PageTurner Books", "Style Loft", "Gadget Grove",
	},
}

var catalogs = map[string][]product{
	StoreGrocery: {
		{"Milk 1 Gal", 2.99, 4.99, "dairy"},
		{"Whole Wheat Bread", 1.99, 3.49, "bakery"},
		{"Large Eggs", 2.49, 4.29, "dairy"},
		{"Bananas", 0.49, 0.79, "produce"},
		{"Chicken Breast", 4.99, 8.99, "meat"},
		{"Ground Beef", 3.99, 7.49, "meat"},
		{"Cheddar Cheese", 2.99, 5.99, "dairy"},
		{"Orange Juice", 2.49, 4.49, "beverages"},
		{"Pasta", 0.99, 2.49, "pantry"},
		{"Tomato Sauce", 1.29, 2.99, "pantry"},
		{"Apples", 1.99, 3.99, "produce"},
		{"Ground Coffee", 5.99, 11.99, "beverages"},
		{"Breakfast Cereal", 2.99, 5.49, "pantry"},
		{"Paper Towels", 3.99, 7.99, "household"},
		{"Dish Soap", 1.99, 3.99, "household"},
		{"Greek Yogurt", 0.99, 1.99, "dairy"},
	},
	StoreRestaurant: {
		{"Caesar Salad", 8.99, 12.99, "appetizers"},
		{"House Burger", 10.99, 15.99, "entrees"},
		{"Margherita Pizza", 11.99, 16.99, "entrees"},
		{"Grilled Salmon", 16.99, 24.99, "entrees"},
		{"Pasta Carbonara", 12.99, 17.99, "entrees"},
		{"Chicken Wings", 7.99, 11.99, "appetizers"},
		{"French Fries", 3.99, 5.99, "sides"},
		{"Garlic Bread", 2.99, 4.99, "sides"},
		{"Soft Drink", 1.99, 2.99, "beverages"},
		{"Iced Tea", 1.99, 2.99, "beverages"},
		{"Soup of the Day", 4.99, 6.99, "appetizers"},
		{"Steak Frites", 19.99, 28.99, "entrees"},
		{"Cheesecake", 5.99, 8.99, "desserts"},
		{"Chocolate Cake", 5.99, 8.99, "desserts"},
	},
	StoreRetail: {
		{"Graphic T-Shirt", 9.99, 24.99, "apparel"},
		{"Slim Fit Jeans", 29.99, 59.99, "apparel"},
		{"Running Sneakers", 39.99, 89.99, "footwear"},
		{"Baseball Cap", 12.99, 19.99, "accessories"},
		{"Canvas Backpack", 24.99, 49.99, "accessories"},
		{"Phone Case", 14.99, 29.99, "electronics"},
		{"USB-C Cable", 7.99, 14.99, "electronics"},
		{"Wireless Headphones", 19.99, 79.99, "electronics"},
		{"Water Bottle", 9.99, 19.99, "home"},
		{"Scented Candle", 8.99, 16.99, "home"},
		{"Lined Notebook", 3.99, 8.99, "stationery"},
		{"Gel Pen Set", 5.99, 12.99, "stationery"},
		{"Sunglasses", 14.99, 34.99, "accessories"},
		{"Zip Hoodie", 24.99, 44.99, "apparel"},
	},
}

var streets = []string{
	"Main St", "Oak Ave", "Maple Dr", "Washington Blvd",
	"Park Lane", "Cedar Ct", "Elm St", "River Rd",
}

var cities = []string{
	"Springfield, IL 62704", "Riverton, OH 44012", "Lakewood, CA 90712",
	"Fairview, TX 75069", "Madison, WI 53703", "Arlington, VA 22201",
	"Georgetown, KY 40324", "Brookfield, CT 06804",
}

var paymentMethods = []string{"VISA", "MASTERCARD", "CASH", "DEBIT"}

const hexDigits = "0123456789abcdef"

// Generator is the default Source. It synthesizes transactions from fixed
// product catalogs and store name pools.
//
// Now is the clock the timestamp window is anchored to. It defaults to
// time.Now and is overridable so seeded batches can regenerate byte-identical
// artifacts.
type Generator struct {
	Now func() time.Time
}

// NewGenerator returns a Generator anchored to the wall clock.
func NewGenerator() *Generator {
	return &Generator{Now: time.Now}
}

// Generate builds one transaction for the given store type.
func (g *Generator) Generate(rng *rand.Rand, storeType string) (Transaction, error) {
	products, ok := catalogs[storeType]
	if !ok {
		return Transaction{}, fmt.Errorf("unknown store type %q", storeType)
	}
	names := storeNames[storeType]

	store := Store{
		Name: names[rng.Intn(len(names))],
		Address: []string{
			fmt.Sprintf("%d %s", 100+rng.Intn(9900), streets[rng.Intn(len(streets))]),
			cities[rng.Intn(len(cities))],
		},
		Phone: fmt.Sprintf("(555) %03d-%04d", rng.Intn(1000), rng.Intn(10000)),
	}

	itemCount := 3 + rng.Intn(13)
	items := make([]Item, 0, itemCount)
	subtotal := 0.0
	for i := 0; i < itemCount; i++ {
		p := products[rng.Intn(len(products))]
		quantity := 1
		if storeType != StoreRestaurant {
			quantity = 1 + rng.Intn(3)
		}
		unit := roundCents(p.min + rng.Float64()*(p.max-p.min))
		total := roundCents(unit * float64(quantity))
		items = append(items, Item{
			Name:      p.name,
			Quantity:  quantity,
			UnitPrice: unit,
			Total:     total,
			Category:  p.category,
		})
		subtotal += total
	}
	subtotal = roundCents(subtotal)

	taxRate := 0.05 + rng.Float64()*0.05
	tax := roundCents(subtotal * taxRate)

	return Transaction{
		Store:         store,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         roundCents(subtotal + tax),
		ID:            hexID(rng, 12),
		Timestamp:     g.timestamp(rng),
		PaymentMethod: paymentMethods[rng.Intn(len(paymentMethods))],
	}, nil
}

// timestamp picks a moment within the last 30 days during business hours
// (8:00 through 21:59) and formats it the way receipt printers do.
func (g *Generator) timestamp(rng *rand.Rand) string {
	day := g.Now().AddDate(0, 0, -rng.Intn(30))
	t := time.Date(day.Year(), day.Month(), day.Day(),
		8+rng.Intn(14), rng.Intn(60), rng.Intn(60), 0, day.Location())
	return t.Format("01/02/2006 03:04:05 PM")
}

func hexID(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = hexDigits[rng.Intn(len(hexDigits))]
	}
	return string(b)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

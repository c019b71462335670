package layout

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/receiptforge-project/receiptforge/pkg/utils"
	"github.com/receiptforge-project/receiptforge/txn"
)

// Per-component character budgets. Content is truncated to its budget, with
// an ellipsis, before emission so measured widths always match the rendered
// glyphs.
const (
	MaxStoreName   = 32
	MaxAddressLine = 44
	MaxItemName    = 26
	MaxFooterLine  = 44
	MaxPromoLine   = 44
)

const ellipsis = "..."

// Semantic tags attached to emitted elements. Ground-truth heuristics and
// case variation key off these; geometry never does.
const (
	TagStoreName     = "store_name"
	TagAddress       = "address"
	TagPhone         = "phone"
	TagItemName      = "item_name"
	TagItemPrice     = "item_price"
	TagItemQty       = "item_qty"
	TagSubtotal      = "subtotal"
	TagTax           = "tax"
	TagTotal         = "total"
	TagTransactionID = "transaction_id"
	TagTimestamp     = "timestamp"
	TagPayment       = "payment"
	TagFooter        = "footer_text"
	TagPromotional   = "promotional"
)

// Tags printed upper case when a document rolls all-caps emulation.
var capsTags = []string{TagStoreName, TagSubtotal, TagTax, TagTotal, TagTransactionID}

var (
	headerStyles = []string{"minimal", "compact", "detailed", "centered"}
	footerStyles = []string{"minimal", "compact", "spread", "detailed", "standard"}
	qtyMarkers   = []string{"x", "@"}
)

var promoLines = []string{
	"Thank you for shopping with us!",
	"Have a wonderful day!",
	"Save your receipt for returns",
	"Join our rewards program today",
	"Follow us online for weekly deals",
	"Satisfaction guaranteed",
	"Tell us how we did at our website",
	"Download our app for coupons",
	"Gift cards available at the register",
	"See store for return policy details",
}

// Builder appends receipt sections to a layout. Every random decision draws
// from the injected generator in a fixed order per call, so a seeded stream
// reproduces the same document structure. Builder calls never touch
// elements already in the layout.
type Builder struct {
	rng *rand.Rand

	// Spacing multiplies every vertical advance; printer styles use it to
	// emulate looser or tighter line feeds.
	Spacing float64

	allCaps bool
}

// NewBuilder rolls the document-wide case variation up front.
func NewBuilder(rng *rand.Rand) *Builder {
	return &Builder{
		rng:     rng,
		Spacing: 1.0,
		allCaps: rng.Float64() < 0.6,
	}
}

// AddHeader lays out the store identity block in one of four header styles
// and closes it with a separator rule.
func (b *Builder) AddHeader(l *Layout, startY int, store txn.Store) int {
	style := headerStyles[b.rng.Intn(len(headerStyles))]
	y := startY
	center := l.Width / 2
	name := b.styled(TagStoreName, Truncate(store.Name, MaxStoreName))

	switch style {
	case "minimal":
		b.text(l, center, y, name, 18, true, AlignCenter, TagStoreName)
		y = b.advance(y, 28)
	case "compact":
		b.text(l, center, y, name, 16, true, AlignCenter, TagStoreName)
		y = b.advance(y, 24)
		addr := Truncate(utils.Join(store.Address, ", "), MaxAddressLine)
		b.text(l, center, y, addr, 9, false, AlignCenter, TagAddress)
		y = b.advance(y, 13)
		b.text(l, center, y, store.Phone, 9, false, AlignCenter, TagPhone)
		y = b.advance(y, 18)
	case "centered":
		b.text(l, center, y, name, 22, true, AlignCenter, TagStoreName)
		y = b.advance(y, 34)
		for _, line := range store.Address {
			b.text(l, center, y, Truncate(line, MaxAddressLine), 10, false, AlignCenter, TagAddress)
			y = b.advance(y, 16)
		}
		b.text(l, center, y, store.Phone, 10, false, AlignCenter, TagPhone)
		y = b.advance(y, 20)
	default: // detailed
		b.text(l, center, y, name, 20, true, AlignCenter, TagStoreName)
		y = b.advance(y, 30)
		for _, line := range store.Address {
			b.text(l, center, y, Truncate(line, MaxAddressLine), 10, false, AlignCenter, TagAddress)
			y = b.advance(y, 15)
		}
		b.text(l, center, y, store.Phone, 10, false, AlignCenter, TagPhone)
		y = b.advance(y, 25)
	}

	l.Elements = append(l.Elements, LineElement{Point: Point{l.Padding, y}})
	return b.advance(y, 10)
}

// AddItems lays out one row per item with the price column right-aligned,
// plus a quantity detail row under multi-quantity items.
func (b *Builder) AddItems(l *Layout, startY int, items []txn.Item) int {
	marker := qtyMarkers[b.rng.Intn(len(qtyMarkers))]
	y := startY
	for _, item := range items {
		b.text(l, l.Padding, y, Truncate(item.Name, MaxItemName), 11, false, AlignLeft, TagItemName)
		b.text(l, l.Width-l.Padding, y, fmt.Sprintf("$%.2f", item.Total), 11, false, AlignRight, TagItemPrice)
		if item.Quantity > 1 {
			y = b.advance(y, 15)
			detail := fmt.Sprintf("  %d %s $%.2f", item.Quantity, marker, item.UnitPrice)
			b.text(l, l.Padding+10, y, detail, 9, false, AlignLeft, TagItemQty)
			y = b.advance(y, 15)
		} else {
			y = b.advance(y, 20)
		}
	}
	return y
}

// AddTotals lays out the separator and the subtotal, tax, and total rows.
func (b *Builder) AddTotals(l *Layout, startY int, t txn.Transaction) int {
	y := startY
	l.Elements = append(l.Elements, LineElement{Point: Point{l.Padding, y}})
	y = b.advance(y, 15)

	rows := []struct {
		label  string
		amount float64
		size   int
		bold   bool
		tag    string
	}{
		{"Subtotal:", t.Subtotal, 11, false, TagSubtotal},
		{"Tax:", t.Tax, 11, false, TagTax},
		{"TOTAL:", t.Total, 14, true, TagTotal},
	}
	for i, row := range rows {
		b.text(l, l.Padding, y, b.styled(row.tag, row.label), row.size, row.bold, AlignLeft, row.tag)
		b.text(l, l.Width-l.Padding, y, fmt.Sprintf("$%.2f", row.amount), row.size, row.bold, AlignRight, row.tag)
		if i == len(rows)-1 {
			y = b.advance(y, 30)
		} else {
			y = b.advance(y, 20)
		}
	}
	return y
}

// AddFooter lays out transaction details and closing text in one of five
// footer styles, then rolls the optional machine-readable codes.
func (b *Builder) AddFooter(l *Layout, startY int, t txn.Transaction) int {
	style := footerStyles[b.rng.Intn(len(footerStyles))]
	y := startY
	center := l.Width / 2

	txnLine := b.styled(TagTransactionID, Truncate("Transaction: "+t.ID, MaxFooterLine))
	const thanks = "Thank you for your purchase!"

	switch style {
	case "minimal":
		b.text(l, center, y, thanks, 10, false, AlignCenter, TagFooter)
		y = b.advance(y, 18)
	case "compact":
		combined := b.styled(TagTransactionID, Truncate(fmt.Sprintf("Txn %s  %s", t.ID, t.Timestamp), MaxFooterLine))
		b.text(l, center, y, combined, 8, false, AlignCenter, TagTransactionID)
		y = b.advance(y, 14)
		b.text(l, center, y, thanks, 10, false, AlignCenter, TagFooter)
		y = b.advance(y, 18)
	case "spread":
		b.text(l, center, y, txnLine, 9, false, AlignCenter, TagTransactionID)
		y = b.advance(y, 22)
		b.text(l, center, y, t.Timestamp, 9, false, AlignCenter, TagTimestamp)
		y = b.advance(y, 22)
		b.text(l, center, y, "Paid with "+t.PaymentMethod, 9, false, AlignCenter, TagPayment)
		y = b.advance(y, 22)
		b.text(l, center, y, thanks, 11, false, AlignCenter, TagFooter)
		y = b.advance(y, 22)
	case "detailed":
		b.text(l, center, y, txnLine, 9, false, AlignCenter, TagTransactionID)
		y = b.advance(y, 15)
		b.text(l, center, y, t.Timestamp, 9, false, AlignCenter, TagTimestamp)
		y = b.advance(y, 15)
		b.text(l, center, y, "Payment: "+t.PaymentMethod, 9, false, AlignCenter, TagPayment)
		y = b.advance(y, 15)
		b.text(l, center, y, thanks, 11, false, AlignCenter, TagFooter)
		y = b.advance(y, 18)
		b.text(l, center, y, "Visit us again soon!", 8, false, AlignCenter, TagFooter)
		y = b.advance(y, 15)
	default: // standard
		b.text(l, center, y, txnLine, 9, false, AlignCenter, TagTransactionID)
		y = b.advance(y, 15)
		b.text(l, center, y, t.Timestamp, 9, false, AlignCenter, TagTimestamp)
		y = b.advance(y, 25)
		b.text(l, center, y, thanks, 11, false, AlignCenter, TagFooter)
		y = b.advance(y, 20)
	}

	if b.rng.Float64() < 0.30 {
		width := l.Width - 4*l.Padding
		l.Elements = append(l.Elements, BarcodeElement{
			Point:     Point{(l.Width - width) / 2, y + 5},
			Data:      t.ID,
			Symbology: Code128,
			Width:     width,
			Height:    40,
		})
		y = b.advance(y, 55)
	}
	if b.rng.Float64() < 0.15 {
		l.Elements = append(l.Elements, BarcodeElement{
			Point:     Point{(l.Width - 70) / 2, y + 5},
			Data:      t.ID,
			Symbology: QR,
			Width:     70,
			Height:    70,
		})
		y = b.advance(y, 85)
	}
	return y
}

// AddPromotionalText rolls the optional promotional filler line.
func (b *Builder) AddPromotionalText(l *Layout, startY int) int {
	if b.rng.Float64() >= 0.30 {
		return startY
	}
	line := Truncate(promoLines[b.rng.Intn(len(promoLines))], MaxPromoLine)
	b.text(l, l.Width/2, startY, line, 9, false, AlignCenter, TagPromotional)
	return b.advance(startY, 18)
}

func (b *Builder) text(l *Layout, x, y int, content string, size int, bold bool, align Alignment, tag string) {
	l.Elements = append(l.Elements, TextElement{
		Point:    Point{x, y},
		Content:  content,
		FontSize: size,
		Bold:     bold,
		Align:    align,
		Tag:      tag,
	})
}

func (b *Builder) styled(tag, s string) string {
	if b.allCaps && utils.Contains(capsTags, tag) {
		return strings.ToUpper(s)
	}
	return s
}

func (b *Builder) advance(y, dy int) int {
	return y + int(math.Round(float64(dy)*b.Spacing))
}

// Truncate shortens s to at most max characters including the ellipsis
// marker. Budgets small enough to not fit the marker cut hard.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= len(ellipsis) {
		return string(runes[:max])
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}

// Budget reports the character budget for a semantic tag. Zero means the
// content is synthesized (prices, rule widths) and carries no budget.
func Budget(tag string) int {
	switch tag {
	case TagStoreName:
		return MaxStoreName
	case TagAddress:
		return MaxAddressLine
	case TagItemName:
		return MaxItemName
	case TagTransactionID, TagTimestamp, TagPayment, TagFooter:
		return MaxFooterLine
	case TagPromotional:
		return MaxPromoLine
	}
	return 0
}

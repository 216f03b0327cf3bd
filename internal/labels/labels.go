// Package labels formats cup labels for orders and hands them to the
// label printer.
package labels

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"brewcart/internal/config"
	"brewcart/internal/models"
)

// Label is the two-line text printed on a cup.
type Label struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// Formatter renders labels with each line capped independently.
type Formatter struct {
	line1Max int
	line2Max int
}

// NewFormatter returns a Formatter using the configured line caps.
func NewFormatter(cfg config.LabelsConfig) *Formatter {
	return &Formatter{line1Max: cfg.Line1Max, line2Max: cfg.Line2Max}
}

// Format renders the label for one item. Line 1 names the customer and
// drink, line 2 carries the price and the chosen options.
func (f *Formatter) Format(order models.Order, item models.OrderItem) Label {
	drink := item.DrinkName
	if item.Quantity > 1 {
		drink = fmt.Sprintf("%dx %s", item.Quantity, drink)
	}
	line1 := drink
	if name := strings.TrimSpace(order.CustomerName); name != "" {
		line1 = name + ": " + drink
	}

	names := make([]string, 0, len(item.SelectedOptions))
	for _, opt := range item.SelectedOptions {
		names = append(names, opt.Name)
	}
	line2 := Price(item.TotalPrice)
	if len(names) > 0 {
		line2 += " " + strings.Join(names, ", ")
	}

	return Label{
		Line1: truncate(line1, f.line1Max),
		Line2: truncate(line2, f.line2Max),
	}
}

// FormatOrder renders one label per item, in item order.
func (f *Formatter) FormatOrder(order models.Order) []Label {
	out := make([]Label, 0, len(order.Items))
	for _, item := range order.Items {
		out = append(out, f.Format(order, item))
	}
	return out
}

// Price renders cents as dollars, e.g. 525 as "$5.25".
func Price(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

// truncate caps s at max runes, marking the cut with "...". A max of zero
// or less leaves s as is.
func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

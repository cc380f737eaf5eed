// Package cart holds the terminal's in-progress sale. The cart is purely
// local; nothing leaves the terminal until checkout places an order.
package cart

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// Line is one cart entry. Lines with the same identity (product, variant and
// option set) merge; quantity is the only thing that grows.
type Line struct {
	ProductID uuid.UUID                `json:"productId"`
	VariantID *uuid.UUID               `json:"variantId,omitempty"`
	Title     string                   `json:"title"`
	UnitPrice money.Money              `json:"unitPrice"`
	Quantity  int                      `json:"quantity"`
	Options   []models.OrderItemOption `json:"options,omitempty"`
	Stock     int                      `json:"stock"`
}

// identity builds the merge key for a line. Option order does not matter.
func (l Line) identity() string {
	parts := make([]string, 0, len(l.Options)+2)
	parts = append(parts, l.ProductID.String())
	if l.VariantID != nil {
		parts = append(parts, l.VariantID.String())
	} else {
		parts = append(parts, "-")
	}
	optionIDs := make([]string, 0, len(l.Options))
	for _, opt := range l.Options {
		optionIDs = append(optionIDs, opt.OptionID.String())
	}
	sort.Strings(optionIDs)
	return strings.Join(append(parts, optionIDs...), "|")
}

// unitTotal is the line's unit price with every option supplement included.
func (l Line) unitTotal() money.Money {
	total := l.UnitPrice
	for _, opt := range l.Options {
		total = total.Add(opt.Price)
	}
	return total
}

// LineTotal is the extended price of the line.
func (l Line) LineTotal() money.Money {
	return l.unitTotal().MulInt(l.Quantity)
}

// Cart is an ordered collection of lines. It is not safe for concurrent use;
// the service serializes access.
type Cart struct {
	lines []Line
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Total recomputes the cart total from its lines every call.
func (c *Cart) Total() money.Money {
	total := money.Zero
	for _, line := range c.lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// add merges the line into the cart, returning the resulting quantity for
// that identity.
func (c *Cart) add(line Line) int {
	key := line.identity()
	for i := range c.lines {
		if c.lines[i].identity() == key {
			c.lines[i].Quantity += line.Quantity
			return c.lines[i].Quantity
		}
	}
	c.lines = append(c.lines, line)
	return line.Quantity
}

// setQuantity pins the quantity for the identified line; a quantity below one
// removes the line. Returns false when no line matches.
func (c *Cart) setQuantity(key string, quantity int) bool {
	for i := range c.lines {
		if c.lines[i].identity() != key {
			continue
		}
		if quantity < 1 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return true
	}
	return false
}

// remove drops the identified line. Returns false when no line matches.
func (c *Cart) remove(key string) bool {
	return c.setQuantity(key, 0)
}

// find returns the line with the given identity, if present.
func (c *Cart) find(key string) (Line, bool) {
	for _, line := range c.lines {
		if line.identity() == key {
			return line, true
		}
	}
	return Line{}, false
}

// clear empties the cart.
func (c *Cart) clear() {
	c.lines = nil
}

// OrderItems snapshots the cart into immutable order lines for checkout.
func (c *Cart) OrderItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Options:   line.Options,
			LineTotal: line.LineTotal(),
		})
	}
	return items
}

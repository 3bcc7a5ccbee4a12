package cart

import (
	"storefront/internal/domain/catalog"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrLimitExceeded = errs.New("cart line limit exceeded")

// Key addresses a cart line: (product, optional variation). A line without a
// variation uses uuid.Nil as its variation component.
type Key struct {
	ProductID   uuid.UUID
	VariationID uuid.UUID
}

func NewKey(productID uuid.UUID, variationID *uuid.UUID) Key {
	k := Key{ProductID: productID}
	if variationID != nil {
		k.VariationID = *variationID
	}
	return k
}

// Line is one cart entry. Product and Variation are priced snapshots captured
// when the item was added; they drift from the authoritative catalog until
// checkout validation reconciles them.
type Line struct {
	Product   catalog.Product    `json:"product"`
	Variation *catalog.Variation `json:"variation,omitempty"`
	Quantity  int32              `json:"cartQuantity"`
}

func (l Line) Key() Key {
	k := Key{ProductID: l.Product.ID}
	if l.Variation != nil {
		k.VariationID = l.Variation.ID
	}
	return k
}

// Cart is the shopper's optimistic item selection. Lines keep insertion order
// (the display order) and no two lines share a key. There is exactly one
// writer per cart, so Cart itself does no locking.
type Cart struct {
	lines    []Line
	maxLines int
}

// New returns an empty cart. maxLines caps the number of distinct lines;
// 0 or negative disables the cap.
func New(maxLines int) *Cart {
	return &Cart{maxLines: maxLines}
}

// Restore rebuilds a cart from persisted lines, preserving their order.
func Restore(lines []Line, maxLines int) *Cart {
	c := New(maxLines)
	c.lines = append(c.lines, lines...)
	return c
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Find(key Key) (Line, bool) {
	if i := c.index(key); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// AddItem increments the matching line's quantity, or appends a new line with
// quantity 1. Adding a new line beyond the cap fails with ErrLimitExceeded and
// leaves the cart unchanged.
func (c *Cart) AddItem(product catalog.Product, variation *catalog.Variation) error {
	line := Line{Product: product, Variation: variation, Quantity: 1}

	if i := c.index(line.Key()); i >= 0 {
		c.lines[i].Quantity++
		return nil
	}

	if c.maxLines > 0 && len(c.lines) >= c.maxLines {
		return ErrLimitExceeded
	}

	c.lines = append(c.lines, line)
	return nil
}

// RemoveItem deletes the matching line; absent keys are a no-op.
func (c *Cart) RemoveItem(key Key) {
	if i := c.index(key); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// IncrementQuantity adds one unit to the matching line. Stock ceilings are a
// caller concern; the cart only guards its own invariants. Reports whether a
// line matched.
func (c *Cart) IncrementQuantity(key Key) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.lines[i].Quantity++
	return true
}

// DecrementQuantity removes one unit, flooring at 1. Dropping a line entirely
// is RemoveItem's job; quantity zero is never persisted.
func (c *Cart) DecrementQuantity(key Key) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
	}
	return true
}

func (c *Cart) Clear() {
	c.lines = nil
}

// ReplaceLines swaps the cart contents wholesale. Only checkout reconciliation
// uses this; ordinary mutation goes through the operations above.
func (c *Cart) ReplaceLines(lines []Line) {
	c.lines = make([]Line, len(lines))
	copy(c.lines, lines)
}

func (c *Cart) index(key Key) int {
	for i, l := range c.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

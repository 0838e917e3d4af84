package models

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shashiranjanraj/foodrun/pkg/collection"
)

// CartItem is one menu line in an in-progress join.
type CartItem struct {
	ID       int
	Name     string
	Price    float64
	Quantity int
}

// Cart holds menu selections while the join workflow is open.
// It is discarded on confirm or cancel and never leaves the client.
type Cart struct {
	items map[int]CartItem
	order []int // insertion order of item IDs
}

func NewCart() *Cart {
	return &Cart{items: make(map[int]CartItem)}
}

// Add inserts the item with quantity 1, or bumps the quantity when the
// item is already in the cart.
func (c *Cart) Add(id int, name string, price float64) {
	if existing, ok := c.items[id]; ok {
		existing.Quantity++
		c.items[id] = existing
		return
	}
	c.items[id] = CartItem{ID: id, Name: name, Price: price, Quantity: 1}
	c.order = append(c.order, id)
}

// SetQuantity sets the item's quantity directly. Zero or negative removes it.
func (c *Cart) SetQuantity(id, qty int) {
	item, ok := c.items[id]
	if !ok {
		return
	}
	if qty <= 0 {
		c.Remove(id)
		return
	}
	item.Quantity = qty
	c.items[id] = item
}

// Remove deletes the item entirely.
func (c *Cart) Remove(id int) {
	if _, ok := c.items[id]; !ok {
		return
	}
	delete(c.items, id)
	c.order = collection.Reject(c.order, func(v int) bool { return v == id })
}

// Empty reports whether no line has a positive quantity.
func (c *Cart) Empty() bool {
	for _, item := range c.items {
		if item.Quantity > 0 {
			return false
		}
	}
	return true
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Total sums quantity × unit price over all lines, rounded to cents.
func (c *Cart) Total() float64 {
	sum := collection.Reduce(c.Items(), 0.0, func(acc float64, item CartItem) float64 {
		return acc + float64(item.Quantity)*item.Price
	})
	return math.Round(sum*100) / 100
}

// Description flattens the cart into the items string the backend stores,
// e.g. "1x Burger, 2x Fries".
func (c *Cart) Description() string {
	lines := collection.Map(c.Items(), func(item CartItem) string {
		return fmt.Sprintf("%dx %s", item.Quantity, item.Name)
	})
	return strings.Join(lines, ", ")
}

// Sorted returns the lines ordered by item ID, for stable display.
func (c *Cart) Sorted() []CartItem {
	out := c.Items()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

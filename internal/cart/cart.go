// Package cart holds a user's pre-checkout selection. All items in a
// non-empty cart come from one restaurant; the first entry's restaurant id is
// the authority for that invariant.
package cart

import (
	"encoding/json"
	"log"

	"dk-delivery/internal/domain"
)

// StorageKey is the namespace under which carts persist.
const StorageKey = "dk_delivery_cart"

// Store is the durable key-value port the cart writes through on every
// mutation.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

type Item struct {
	ID           string       `json:"id"`
	RestaurantID int          `json:"restaurant_id"`
	Name         string       `json:"name"`
	Price        string       `json:"price"`
	Quantity     int          `json:"quantity"`
	ImageURL     string       `json:"image,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Options      []ItemOption `json:"options,omitempty"`
}

type ItemOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Price string `json:"price"`
}

// Decision resolves a conflicting-restaurant add.
type Decision int

const (
	// KeepCart leaves the existing cart unchanged and drops the new item.
	KeepCart Decision = iota
	// ReplaceCart clears the cart and keeps only the new item.
	ReplaceCart
)

// ConflictResolver is consulted when an added item comes from a different
// restaurant than the current cart. How the decision is obtained (a UI
// confirmation, a query parameter) is the caller's concern.
type ConflictResolver func(currentRestaurantID int, incoming Item) Decision

type Cart struct {
	store Store
	key   string
	items []Item
}

// New loads the cart persisted under key, or starts empty when nothing (or
// nothing readable) is stored there.
func New(store Store, key string) *Cart {
	c := &Cart{store: store, key: key}
	c.load()
	return c
}

func (c *Cart) load() {
	raw, err := c.store.Get(c.key)
	if err != nil {
		log.Printf("WARNING: failed to load cart %q: %v", c.key, err)
		return
	}
	if raw == "" {
		return
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("WARNING: discarding unreadable cart %q: %v", c.key, err)
		return
	}
	c.items = items
}

func (c *Cart) save() {
	raw, err := json.Marshal(c.items)
	if err != nil {
		log.Printf("WARNING: failed to encode cart %q: %v", c.key, err)
		return
	}
	if err := c.store.Set(c.key, string(raw)); err != nil {
		log.Printf("WARNING: failed to save cart %q: %v", c.key, err)
	}
}

// Add puts an item in the cart. An item from a different restaurant than the
// current cart is a conflict: resolve decides whether the cart is replaced
// with the new item or left untouched (nil resolve keeps the cart). An item
// whose id matches an existing entry merges by summing quantities; the
// existing entry's notes and options win.
func (c *Cart) Add(item Item, resolve ConflictResolver) {
	if current, ok := c.RestaurantID(); ok && current != item.RestaurantID {
		decision := KeepCart
		if resolve != nil {
			decision = resolve(current, item)
		}
		if decision != ReplaceCart {
			return
		}
		c.items = []Item{item}
		c.save()
		return
	}

	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity += item.Quantity
			c.save()
			return
		}
	}

	c.items = append(c.items, item)
	c.save()
}

// Remove drops the entry with the given id. An absent id is a no-op.
func (c *Cart) Remove(itemID string) {
	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.save()
			return
		}
	}
}

// SetQuantity replaces an entry's quantity in place. A quantity of zero or
// less removes the entry.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items[i].Quantity = quantity
			c.save()
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
	c.save()
}

// Total sums unit price times quantity plus each option's price times
// quantity across all entries. Prices are parsed leniently so a cart with
// malformed stored prices still sums; bad magnitudes count as zero.
func (c *Cart) Total() domain.Money {
	var total int64
	for _, item := range c.items {
		line := domain.LenientMoney(item.Price).Amount
		for _, opt := range item.Options {
			line += domain.LenientMoney(opt.Price).Amount
		}
		total += line * int64(item.Quantity)
	}
	return domain.NewMoney(total)
}

// ItemCount is the sum of all entries' quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// RestaurantID is the restaurant of the first entry. The second return is
// false for an empty cart.
func (c *Cart) RestaurantID() (int, bool) {
	if len(c.items) == 0 {
		return 0, false
	}
	return c.items[0].RestaurantID, true
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

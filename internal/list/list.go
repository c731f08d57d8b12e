// Package list implements the shopping list.
package list

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrItemNotFound is returned for ids that are not on the list.
	ErrItemNotFound = errors.New("shopping list item not found")
	// ErrInvalidCount is returned when a count is negative.
	ErrInvalidCount = errors.New("count must not be negative")
)

// Item is one line of the shopping list.
type Item struct {
	ID         string  `json:"id"`
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}

// List is an ordered shopping list.
type List struct {
	items []Item
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// AddItem appends an item with a fresh id and returns it.
func (l *List) AddItem(count float64, unit, ingredient string) Item {
	item := Item{
		ID:         uuid.NewString(),
		Count:      count,
		Unit:       unit,
		Ingredient: ingredient,
	}
	l.items = append(l.items, item)
	return item
}

// DeleteItem removes the item with the given id.
func (l *List) DeleteItem(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrItemNotFound)
	}
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

// UpdateCount sets the count of the item with the given id.
func (l *List) UpdateCount(id string, count float64) (Item, error) {
	if count < 0 {
		return Item{}, fmt.Errorf("update %s: %w", id, ErrInvalidCount)
	}
	i := l.index(id)
	if i < 0 {
		return Item{}, fmt.Errorf("update %s: %w", id, ErrItemNotFound)
	}
	l.items[i].Count = count
	return l.items[i], nil
}

// Items returns a copy of the list contents in insertion order.
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) index(id string) int {
	return slices.IndexFunc(l.items, func(it Item) bool { return it.ID == id })
}

package filter

import (
	"container/list"

	"github.com/five82/logtrail/internal/logentry"
)

// ID identifies a predicate inside an Expression or ToggleSet.
type ID int

// Item is a predicate as held by a collection.
type Item struct {
	ID        ID
	Predicate Predicate
	Active    bool
}

// chain keeps predicates in insertion order with O(1) add and remove by ID.
type chain struct {
	order  *list.List
	byID   map[ID]*list.Element
	nextID ID
}

func (c *chain) init() {
	if c.order == nil {
		c.order = list.New()
		c.byID = make(map[ID]*list.Element)
	}
}

func (c *chain) add(p Predicate, active bool) ID {
	c.init()
	c.nextID++
	id := c.nextID
	c.byID[id] = c.order.PushBack(&Item{ID: id, Predicate: p, Active: active})
	return id
}

func (c *chain) remove(id ID) bool {
	el, ok := c.byID[id]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.byID, id)
	return true
}

func (c *chain) get(id ID) (*Item, bool) {
	el, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return el.Value.(*Item), true
}

func (c *chain) len() int {
	if c.order == nil {
		return 0
	}
	return c.order.Len()
}

func (c *chain) clear() {
	c.order = nil
	c.byID = nil
}

func (c *chain) items() []Item {
	if c.order == nil {
		return nil
	}
	out := make([]Item, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value.(*Item))
	}
	return out
}

// matchesActive ANDs every active item, stopping at the first failure.
func (c *chain) matchesActive(e logentry.Entry) bool {
	if c.order == nil {
		return true
	}
	for el := c.order.Front(); el != nil; el = el.Next() {
		item := el.Value.(*Item)
		if item.Active && !item.Predicate.Matches(e) {
			return false
		}
	}
	return true
}

// Expression is an ordered AND of predicates built from search promotion and
// contextual actions. The zero value is an empty expression.
type Expression struct {
	c chain
}

func (x *Expression) Add(p Predicate) ID { return x.c.add(p, true) }
func (x *Expression) Remove(id ID) bool { return x.c.remove(id) }
func (x *Expression) Len() int { return x.c.len() }
func (x *Expression) IsEmpty() bool { return x.c.len() == 0 }
func (x *Expression) Clear() { x.c.clear() }
func (x *Expression) Items() []Item { return x.c.items() }
func (x *Expression) Matches(e logentry.Entry) bool { return x.c.matchesActive(e) }

// ToggleSet holds the traditional filters, each of which can be switched off
// without being removed.
type ToggleSet struct {
	c chain
}

// Add appends an active filter.
func (t *ToggleSet) Add(p Predicate) ID { return t.c.add(p, true) }

func (t *ToggleSet) Remove(id ID) bool { return t.c.remove(id) }

// Toggle flips the filter's active flag. It reports false for unknown IDs.
func (t *ToggleSet) Toggle(id ID) bool {
	item, ok := t.c.get(id)
	if !ok {
		return false
	}
	item.Active = !item.Active
	return true
}

// SetActive reports whether the flag changed.
func (t *ToggleSet) SetActive(id ID, active bool) bool {
	item, ok := t.c.get(id)
	if !ok || item.Active == active {
		return false
	}
	item.Active = active
	return true
}

func (t *ToggleSet) Len() int { return t.c.len() }
func (t *ToggleSet) Clear() { t.c.clear() }
func (t *ToggleSet) Items() []Item { return t.c.items() }

// ActiveCount returns the number of filters currently switched on.
func (t *ToggleSet) ActiveCount() int {
	n := 0
	for _, item := range t.c.items() {
		if item.Active {
			n++
		}
	}
	return n
}

func (t *ToggleSet) Matches(e logentry.Entry) bool { return t.c.matchesActive(e) }

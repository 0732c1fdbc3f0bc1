// Package store contains the client-side projections of the server's
// collections. Stores never mutate optimistically: every change waits for a
// confirmed server response and reconciles by id, so the displayed state
// never diverges from the last thing the server said.
package store

// keyed is any entity addressable by a collection key.
type keyed interface {
	Key() string
}

// collection is an ordered, id-unique projection of a server collection.
// It is not safe for concurrent use; owning stores serialize access.
type collection[T keyed] struct {
	items []T
}

// setAll replaces the whole collection with the server-returned sequence.
func (c *collection[T]) setAll(items []T) {
	c.items = append(c.items[:0:0], items...)
}

// upsert appends item, or replaces an existing entry with the same key so a
// repeated create response can never introduce a duplicate.
func (c *collection[T]) upsert(item T) {
	if c.replace(item) {
		return
	}
	c.items = append(c.items, item)
}

// replace swaps the entry matching item's key and reports whether one was
// found. All other entries are untouched.
func (c *collection[T]) replace(item T) bool {
	for i := range c.items {
		if c.items[i].Key() == item.Key() {
			c.items[i] = item
			return true
		}
	}
	return false
}

// remove filters out the entry with the given key.
func (c *collection[T]) remove(key string) bool {
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// get returns the entry with the given key.
func (c *collection[T]) get(key string) (T, bool) {
	for i := range c.items {
		if c.items[i].Key() == key {
			return c.items[i], true
		}
	}
	var zero T
	return zero, false
}

// snapshot returns a copy of the ordered sequence for display.
func (c *collection[T]) snapshot() []T {
	return append([]T(nil), c.items...)
}

func (c *collection[T]) len() int {
	return len(c.items)
}

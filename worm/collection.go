package worm

// Collection owns the live worm set in insertion order
// Iteration order is spawn order, which the power-up first-match lookup relies on
type Collection struct {
	items []*Worm
	index map[string]int
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// Add inserts w, replacing any worm with the same id
func (c *Collection) Add(w *Worm) {
	if i, ok := c.index[w.ID]; ok {
		c.items[i] = w
		return
	}
	c.index[w.ID] = len(c.items)
	c.items = append(c.items, w)
}

// Get looks up a worm by id
func (c *Collection) Get(id string) (*Worm, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.items[i], true
}

// Remove deletes a worm, marks it inactive and returns it
func (c *Collection) Remove(id string) (*Worm, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	w := c.items[i]
	w.Active = false

	copy(c.items[i:], c.items[i+1:])
	c.items[len(c.items)-1] = nil
	c.items = c.items[:len(c.items)-1]
	delete(c.index, id)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ID] = j
	}
	return w, true
}

// All returns every worm in spawn order, callers must not retain it across mutations
func (c *Collection) All() []*Worm {
	return c.items
}

// Active returns the active worms in spawn order
func (c *Collection) Active() []*Worm {
	out := make([]*Worm, 0, len(c.items))
	for _, w := range c.items {
		if w.Active {
			out = append(out, w)
		}
	}
	return out
}

// ActiveCount counts active worms without allocating
func (c *Collection) ActiveCount() int {
	n := 0
	for _, w := range c.items {
		if w.Active {
			n++
		}
	}
	return n
}

// Len returns the number of worms held
func (c *Collection) Len() int {
	return len(c.items)
}

// Clear removes every worm and returns them
func (c *Collection) Clear() []*Worm {
	out := c.items
	for _, w := range out {
		w.Active = false
	}
	c.items = nil
	clear(c.index)
	return out
}

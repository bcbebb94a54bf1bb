package cart

import (
	"sync"

	"github.com/AutomationAlchemyst/balangconnect/internal/catalog"
)

// Line is a selected drink with its quantity. Quantity is always >= 1 while
// the line exists; a line at zero is removed, never stored.
type Line struct {
	Drink    catalog.Drink `json:"drink"`
	Quantity int           `json:"quantity"`
}

// AddonLine is a selected add-on with its quantity, same invariant as Line.
// The store does not gate on HasQuantity; callers own that.
type AddonLine struct {
	Addon    catalog.Addon `json:"addon"`
	Quantity int           `json:"quantity"`
}

// Snapshot is a by-value copy of the cart state, safe to price and submit
// while the live cart keeps mutating.
type Snapshot struct {
	Lines   []Line           `json:"lines"`
	Package *catalog.Package `json:"package"`
	Addons  []AddonLine      `json:"addons"`
}

// TotalFlavorCount sums drink quantities across all lines.
func (s Snapshot) TotalFlavorCount() int {
	total := 0
	for _, l := range s.Lines {
		total += l.Quantity
	}
	return total
}

// Cart holds one session's in-progress selection. All operations are atomic;
// readers never observe partial state. At most one line per drink identity and
// one per add-on identity.
type Cart struct {
	mu     sync.Mutex
	lines  []Line
	pkg    *catalog.Package
	addons []AddonLine
}

func New() *Cart {
	return &Cart{}
}

// AddDrink merges into an existing line for the same drink id or appends a new
// line with quantity 1. No upper bound.
func (c *Cart) AddDrink(d catalog.Drink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Drink.ID == d.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Drink: d, Quantity: 1})
}

// RemoveDrink decrements the line, dropping it entirely at quantity 1.
// Removing an absent drink is a no-op.
func (c *Cart) RemoveDrink(drinkID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Drink.ID != drinkID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
			return
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
}

// SelectPackage replaces the selected package wholesale; nil clears it.
// Existing flavor and add-on selections are deliberately left alone; the
// pricing engine judges them against the new limit.
func (c *Cart) SelectPackage(p *catalog.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == nil {
		c.pkg = nil
		return
	}
	cp := *p
	c.pkg = &cp
}

// AddAddon merges by add-on id, same semantics as AddDrink. Quantity grows
// unbounded here even for HasQuantity=false add-ons.
func (c *Cart) AddAddon(a catalog.Addon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.addons {
		if c.addons[i].Addon.ID == a.ID {
			c.addons[i].Quantity++
			return
		}
	}
	c.addons = append(c.addons, AddonLine{Addon: a, Quantity: 1})
}

// RemoveAddon decrements, dropping at quantity 1; no-op when absent.
func (c *Cart) RemoveAddon(addonID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.addons {
		if c.addons[i].Addon.ID != addonID {
			continue
		}
		if c.addons[i].Quantity > 1 {
			c.addons[i].Quantity--
			return
		}
		c.addons = append(c.addons[:i], c.addons[i+1:]...)
		return
	}
}

// Clear resets the cart to empty.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.pkg = nil
	c.addons = nil
}

// Snapshot returns a deep copy of the current state.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Lines:  make([]Line, len(c.lines)),
		Addons: make([]AddonLine, len(c.addons)),
	}
	copy(s.Lines, c.lines)
	copy(s.Addons, c.addons)
	if c.pkg != nil {
		cp := *c.pkg
		s.Package = &cp
	}
	return s
}

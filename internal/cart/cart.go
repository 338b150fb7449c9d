package cart

import (
	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/domain"
)

// LineIDGenerator synthesizes ids for lines that must never merge (curtains
// sized per window, security bundles with accessory sets). Injected so tests
// can assert distinctness deterministically.
type LineIDGenerator interface {
	NewLineID(catalogID string) string
}

type UUIDLineIDs struct{}

func (UUIDLineIDs) NewLineID(catalogID string) string {
	return catalogID + "-" + uuid.NewString()
}

// Line is one row in the shopping cart.
type Line struct {
	ID        string
	CatalogID string
	Name      string
	Category  domain.Category

	// Price is the per-unit rate, or the whole line total (minus the
	// accessory bundle) when Flat is set.
	Price              float64
	Quantity           int
	Flat               bool
	InstallationCharge float64
	Accessories        []SelectedAccessory

	TrackSize      float64
	Model          string
	ConnectionType string
	EngravingText  string
	Image          string
	Notes          []string
}

// Total derives the line's contribution to the cart total. The accessory
// bundle is charged once, never scaled by quantity.
func (l Line) Total() float64 {
	base := l.Price
	if !l.Flat {
		base = l.Price * float64(l.Quantity)
	}
	return base + accessoriesSum(l.Accessories)
}

type Totals struct {
	TotalItems int
	TotalPrice float64
}

// Cart owns the session's ordered line list. All mutations run inside a
// single request handler for one session, so the engine itself does no
// locking; the session store serializes access.
type Cart struct {
	gen       LineIDGenerator
	lines     []Line
	listeners []func()
}

func New(gen LineIDGenerator) *Cart {
	if gen == nil {
		gen = UUIDLineIDs{}
	}
	return &Cart{gen: gen}
}

// OnChange registers a listener fired after every mutation.
func (c *Cart) OnChange(fn func()) { c.listeners = append(c.listeners, fn) }

func (c *Cart) notify() {
	for _, fn := range c.listeners {
		fn()
	}
}

// mergeable reports whether a selection may fold into an existing line for
// the same catalog entry. Curtain and film configurations are unique per
// order, and accessory sets are not canonically comparable.
func mergeable(ps PricedSelection) bool {
	if ps.Category == domain.CategoryCurtain || ps.Category == domain.CategoryFilm {
		return false
	}
	return len(ps.Accessories) == 0
}

// Add inserts a priced selection, merging quantities into an existing line
// when the merge rule allows it.
func (c *Cart) Add(ps PricedSelection) {
	defer c.notify()

	if mergeable(ps) {
		for i := range c.lines {
			if c.lines[i].CatalogID == ps.CatalogID && len(c.lines[i].Accessories) == 0 {
				c.mergeInto(&c.lines[i], ps.Quantity)
				return
			}
		}
	}

	id := ps.CatalogID
	if !mergeable(ps) {
		id = c.gen.NewLineID(ps.CatalogID)
	}
	price := ps.UnitPrice
	if ps.Flat {
		price = ps.TotalPrice - accessoriesSum(ps.Accessories)
	} else if ps.EngravingCharge > 0 && ps.Quantity > 0 {
		// Engraving is per unit; fold it so merges keep the rate stable.
		price += ps.EngravingCharge / float64(ps.Quantity)
	}
	c.lines = append(c.lines, Line{
		ID:                 id,
		CatalogID:          ps.CatalogID,
		Name:               ps.Name,
		Category:           ps.Category,
		Price:              price,
		Quantity:           ps.Quantity,
		Flat:               ps.Flat,
		InstallationCharge: ps.InstallationCharge,
		Accessories:        ps.Accessories,
		TrackSize:          ps.TrackSize,
		Model:              ps.Model,
		ConnectionType:     ps.ConnectionType,
		EngravingText:      ps.EngravingText,
		Image:              ps.Image,
		Notes:              ps.Notes,
	})
}

// mergeInto sums quantities, re-deriving the flat total from the implicit
// unit rate so one-time charges are not re-multiplied.
func (c *Cart) mergeInto(l *Line, qty int) {
	newQty := l.Quantity + qty
	if l.Flat {
		rate := (l.Price - l.InstallationCharge) / float64(l.Quantity)
		l.Price = rate*float64(newQty) + l.InstallationCharge
	}
	l.Quantity = newQty
}

// Remove deletes a line. Removing an unknown id is a no-op.
func (c *Cart) Remove(lineID string) {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.notify()
			return
		}
	}
}

// UpdateQuantity applies a delta to a line's quantity. A resulting quantity
// of zero or less removes the line. Growing a switch line that carries an
// installation charge past 3 units is rejected with ErrQuantityCapped.
func (c *Cart) UpdateQuantity(lineID string, delta int) error {
	for i := range c.lines {
		l := &c.lines[i]
		if l.ID != lineID {
			continue
		}
		newQty := l.Quantity + delta
		if newQty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.notify()
			return nil
		}
		if l.Category == domain.CategorySwitch && l.InstallationCharge > 0 && newQty > switchInstallationMaxQty {
			return domain.ErrQuantityCapped
		}
		if l.Flat {
			if l.InstallationCharge > 0 {
				rate := (l.Price - l.InstallationCharge) / float64(l.Quantity)
				l.Price = rate*float64(newQty) + l.InstallationCharge
			} else {
				l.Price = l.Price / float64(l.Quantity) * float64(newQty)
			}
		}
		l.Quantity = newQty
		c.notify()
		return nil
	}
	return nil
}

func (c *Cart) Totals() Totals {
	t := Totals{}
	for _, l := range c.lines {
		t.TotalItems += l.Quantity
		t.TotalPrice += l.Total()
	}
	return t
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

// Clear empties the cart atomically, used after a successful order.
func (c *Cart) Clear() {
	if len(c.lines) == 0 {
		return
	}
	c.lines = nil
	c.notify()
}

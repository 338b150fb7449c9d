package cart

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sohubtech/homestore/internal/domain"
)

// seqLineIDs is a deterministic generator so tests can assert that
// non-mergeable additions get distinct identities.
type seqLineIDs struct{ n int }

func (g *seqLineIDs) NewLineID(catalogID string) string {
	g.n++
	return fmt.Sprintf("%s#%d", catalogID, g.n)
}

func switchEntry() CatalogEntry {
	return CatalogEntry{
		ID:                 "sw-1",
		Name:               "Smart Switch",
		Category:           domain.CategorySwitch,
		EngravingAvailable: true,
		EngravingPrice:     200,
		Variants: []VariantOption{
			{Name: "1 Gang", Price: 4500},
			{Name: "2 Gang", Price: 6750},
			{Name: "3 Gang", Price: 8900, DiscountPrice: 7990},
		},
	}
}

func TestAddMergesSameCatalogID(t *testing.T) {
	c := New(&seqLineIDs{})

	for _, qty := range []int{2, 3} {
		ps, err := Resolve(switchEntry(), VariantSelection{Variant: "1 Gang", Quantity: qty})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		c.Add(ps)
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("want 1 merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", lines[0].Quantity)
	}
	if lines[0].Price != 4500 {
		t.Errorf("unit price changed on merge: %v", lines[0].Price)
	}
}

func TestCurtainAndFilmNeverMerge(t *testing.T) {
	curtain := CatalogEntry{
		ID:       "cu-1",
		Name:     "Slider Curtain",
		Category: domain.CategoryCurtain,
		TrackRates: map[TrackTier]float64{
			TrackStandard: 25000,
			TrackLarge:    42000,
		},
	}
	film := CatalogEntry{ID: "fl-1", Name: "PDLC Film", Category: domain.CategoryFilm, BasePrice: 650}

	c := New(&seqLineIDs{})
	for i := 0; i < 2; i++ {
		ps, err := Resolve(curtain, VariantSelection{TrackTier: TrackStandard, TrackSize: 8, Quantity: 1})
		if err != nil {
			t.Fatalf("resolve curtain: %v", err)
		}
		c.Add(ps)
	}
	for i := 0; i < 2; i++ {
		ps, err := Resolve(film, VariantSelection{Height: 5, Width: 4, Quantity: 1})
		if err != nil {
			t.Fatalf("resolve film: %v", err)
		}
		c.Add(ps)
	}

	lines := c.Lines()
	if len(lines) != 4 {
		t.Fatalf("want 4 distinct lines, got %d", len(lines))
	}
	seen := map[string]bool{}
	for _, l := range lines {
		if seen[l.ID] {
			t.Errorf("duplicate line id %q", l.ID)
		}
		seen[l.ID] = true
	}
}

func TestSecurityWithAccessoriesNeverMerges(t *testing.T) {
	entry := CatalogEntry{
		ID:        "sec-1",
		Name:      "Security Panel",
		Category:  domain.CategorySecurity,
		BasePrice: 8500,
		Accessories: []AccessoryOption{
			{ID: "acc-door", Name: "Door Sensor", Price: 1200},
		},
	}
	c := New(&seqLineIDs{})
	for i := 0; i < 2; i++ {
		ps, err := Resolve(entry, VariantSelection{Quantity: 1, AccessoryIDs: []string{"acc-door"}})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		c.Add(ps)
	}
	if c.Len() != 2 {
		t.Fatalf("accessory bundles merged, want 2 lines got %d", c.Len())
	}
}

func TestFlatTotalQuantityRecompute(t *testing.T) {
	c := New(nil)
	c.Add(PricedSelection{
		CatalogID:          "sw-9",
		Category:           domain.CategorySwitch,
		Quantity:           1,
		Flat:               true,
		InstallationCharge: 200,
		TotalPrice:         1000,
	})

	if err := c.UpdateQuantity("sw-9", +1); err != nil {
		t.Fatalf("update: %v", err)
	}
	l := c.Lines()[0]
	if l.Price != 1800 {
		t.Errorf("flat total = %v, want 1800 (unit 800 x 2 + 200)", l.Price)
	}
	if got := l.Total(); got != 1800 {
		t.Errorf("line total = %v, want 1800", got)
	}
}

func TestLightingFlatRecompute(t *testing.T) {
	entry := CatalogEntry{
		ID:       "lt-1",
		Name:     "Spot Light",
		Category: domain.CategoryLighting,
		Variants: []VariantOption{{Name: "Standard", Price: 1500, WifiUpcharge: 500}},
	}
	ps, err := Resolve(entry, VariantSelection{Variant: "Standard", ConnectionType: "zigbee", Quantity: 2})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	c := New(nil)
	c.Add(ps)
	if err := c.UpdateQuantity(c.Lines()[0].ID, +1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := c.Lines()[0].Total(); got != 4500 {
		t.Errorf("lighting total = %v, want 4500", got)
	}
}

func TestZeroQuantityRemovesLine(t *testing.T) {
	c := New(nil)
	ps, err := Resolve(switchEntry(), VariantSelection{Variant: "1 Gang", Quantity: 2})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	c.Add(ps)
	id := c.Lines()[0].ID

	if err := c.UpdateQuantity(id, -2); err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("line not removed at zero quantity")
	}
	if tot := c.Totals(); tot.TotalItems != 0 || tot.TotalPrice != 0 {
		t.Errorf("totals after removal = %+v, want zeros", tot)
	}
}

func TestAccessoriesNotScaledByQuantity(t *testing.T) {
	c := New(&seqLineIDs{})
	c.Add(PricedSelection{
		CatalogID:   "sec-2",
		Category:    domain.CategorySecurity,
		UnitPrice:   500,
		Quantity:    3,
		Accessories: []SelectedAccessory{{ID: "a", Name: "Sensor", Price: 100, Qty: 1}},
		TotalPrice:  1600,
	})
	if got := c.Lines()[0].Total(); got != 1600 {
		t.Errorf("line total = %v, want 1600 (500x3 + 100 once)", got)
	}
	if tot := c.Totals(); tot.TotalPrice != 1600 {
		t.Errorf("cart total = %v, want 1600", tot.TotalPrice)
	}
}

func TestSwitchInstallationQuantityCap(t *testing.T) {
	c := New(nil)
	c.Add(PricedSelection{
		CatalogID:          "sw-cap",
		Category:           domain.CategorySwitch,
		UnitPrice:          4500,
		Quantity:           3,
		Flat:               true,
		InstallationCharge: 2000,
		TotalPrice:         4500*3 + 2000,
	})

	err := c.UpdateQuantity("sw-cap", +1)
	if !errors.Is(err, domain.ErrQuantityCapped) {
		t.Fatalf("err = %v, want ErrQuantityCapped", err)
	}
	if got := c.Lines()[0].Quantity; got != 3 {
		t.Errorf("quantity = %d, want unchanged 3", got)
	}

	// 2 -> 3 is still inside the flat-priced window.
	if err := c.UpdateQuantity("sw-cap", -1); err != nil {
		t.Fatalf("dec: %v", err)
	}
	if err := c.UpdateQuantity("sw-cap", +1); err != nil {
		t.Fatalf("inc back to 3: %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := New(nil)
	c.Remove("nope")
	ps, _ := Resolve(switchEntry(), VariantSelection{Variant: "1 Gang", Quantity: 1})
	c.Add(ps)
	id := c.Lines()[0].ID
	c.Remove(id)
	c.Remove(id)
	if c.Len() != 0 {
		t.Fatalf("line survived removal")
	}
}

func TestChangeListenerFires(t *testing.T) {
	c := New(nil)
	fired := 0
	c.OnChange(func() { fired++ })

	ps, _ := Resolve(switchEntry(), VariantSelection{Variant: "1 Gang", Quantity: 1})
	c.Add(ps)
	if err := c.UpdateQuantity(c.Lines()[0].ID, +1); err != nil {
		t.Fatal(err)
	}
	c.Clear()
	if fired != 3 {
		t.Errorf("listener fired %d times, want 3", fired)
	}
}

func TestEndToEndEngravedSwitch(t *testing.T) {
	ps, err := Resolve(switchEntry(), VariantSelection{
		Variant:       "2 Gang",
		EngravingText: "ABC",
		Quantity:      2,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ps.UnitPrice != 6750 {
		t.Errorf("unit price = %v, want 6750", ps.UnitPrice)
	}
	if ps.EngravingCharge != 400 {
		t.Errorf("engraving charge = %v, want 400", ps.EngravingCharge)
	}
	if ps.TotalPrice != 13900 {
		t.Errorf("total = %v, want 13900", ps.TotalPrice)
	}

	c := New(nil)
	c.Add(ps)
	if c.Len() != 1 {
		t.Fatalf("want 1 line, got %d", c.Len())
	}
	if got := c.Lines()[0].Total(); got != 13900 {
		t.Errorf("line total = %v, want 13900", got)
	}
}

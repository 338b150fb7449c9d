package cart

import (
	"errors"
	"testing"

	"github.com/sohubtech/homestore/internal/domain"
)

func TestResolveRejectsInvalidSelections(t *testing.T) {
	entry := switchEntry()
	plain := entry
	plain.EngravingAvailable = false

	cases := []struct {
		name  string
		entry CatalogEntry
		sel   VariantSelection
	}{
		{"zero quantity", entry, VariantSelection{Variant: "1 Gang", Quantity: 0}},
		{"negative quantity", entry, VariantSelection{Variant: "1 Gang", Quantity: -2}},
		{"unknown variant", entry, VariantSelection{Variant: "9 Gang", Quantity: 1}},
		{"engraving on non-engravable", plain, VariantSelection{Variant: "1 Gang", EngravingText: "hi", Quantity: 1}},
		{"unknown accessory", entry, VariantSelection{Variant: "1 Gang", Quantity: 1, AccessoryIDs: []string{"ghost"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.entry, tc.sel)
			if !errors.Is(err, domain.ErrInvalidSelection) {
				t.Fatalf("err = %v, want ErrInvalidSelection", err)
			}
		})
	}
}

func TestResolvePrefersDiscountPrice(t *testing.T) {
	ps, err := Resolve(switchEntry(), VariantSelection{Variant: "3 Gang", Quantity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if ps.UnitPrice != 7990 {
		t.Errorf("unit price = %v, want discounted 7990", ps.UnitPrice)
	}

	// A discount above list price is ignored.
	entry := switchEntry()
	entry.Variants = []VariantOption{{Name: "1 Gang", Price: 4500, DiscountPrice: 9000}}
	ps, err = Resolve(entry, VariantSelection{Variant: "1 Gang", Quantity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if ps.UnitPrice != 4500 {
		t.Errorf("unit price = %v, want list 4500", ps.UnitPrice)
	}
}

func TestResolveSwitchInstallationIsFlat(t *testing.T) {
	ps, err := Resolve(switchEntry(), VariantSelection{Variant: "1 Gang", Quantity: 2, Installation: true})
	if err != nil {
		t.Fatal(err)
	}
	if !ps.Flat {
		t.Error("installation line not flat-total")
	}
	if ps.InstallationCharge != 2000 {
		t.Errorf("installation charge = %v, want 2000", ps.InstallationCharge)
	}
	if ps.TotalPrice != 4500*2+2000 {
		t.Errorf("total = %v, want 11000", ps.TotalPrice)
	}

	// Installation is only flat-priced up to 3 switches.
	_, err = Resolve(switchEntry(), VariantSelection{Variant: "1 Gang", Quantity: 4, Installation: true})
	if !errors.Is(err, domain.ErrQuantityCapped) {
		t.Errorf("qty 4 with installation: err = %v, want ErrQuantityCapped", err)
	}
}

func TestResolveCurtainTiers(t *testing.T) {
	entry := CatalogEntry{
		ID:       "cu-2",
		Name:     "Roller Curtain",
		Category: domain.CategoryCurtain,
		TrackRates: map[TrackTier]float64{
			TrackStandard:   25000,
			TrackLarge:      42000,
			TrackExtraLarge: 0, // quote on request
		},
	}

	ps, err := Resolve(entry, VariantSelection{TrackTier: TrackLarge, Quantity: 2, Installation: true})
	if err != nil {
		t.Fatal(err)
	}
	if ps.TotalPrice != 42000*2+3500*2 {
		t.Errorf("total = %v, want 91000", ps.TotalPrice)
	}
	if len(ps.Notes) == 0 {
		t.Error("large track should note the two-motor requirement")
	}

	if _, err := Resolve(entry, VariantSelection{TrackTier: TrackExtraLarge, Quantity: 1}); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Errorf("extra-large without rate: err = %v, want ErrInvalidSelection", err)
	}
	if _, err := Resolve(entry, VariantSelection{TrackTier: "giant", Quantity: 1}); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Errorf("unknown tier: err = %v, want ErrInvalidSelection", err)
	}
}

func TestResolveFilmAreaPricing(t *testing.T) {
	entry := CatalogEntry{ID: "fl-2", Name: "PDLC Film", Category: domain.CategoryFilm, BasePrice: 650}

	// 5x4 ft, qty 2 => 40 sq ft => 26000 film + 9500 transformer (30W) + 5000 install.
	ps, err := Resolve(entry, VariantSelection{Height: 5, Width: 4, Quantity: 2})
	if err != nil {
		t.Fatal(err)
	}
	if ps.TotalPrice != 26000+9500+5000 {
		t.Errorf("total = %v, want 40500", ps.TotalPrice)
	}
	if len(ps.Accessories) != 1 || ps.Accessories[0].Name != "30W Transformer" {
		t.Errorf("transformer = %+v, want 30W", ps.Accessories)
	}

	// Past the site-visit threshold installation is quoted, not charged.
	big, err := Resolve(entry, VariantSelection{Height: 20, Width: 20, Quantity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if big.InstallationCharge != 0 {
		t.Errorf("installation = %v, want 0 pending site visit", big.InstallationCharge)
	}
	if len(big.Notes) == 0 {
		t.Error("want site-visit note on large film order")
	}

	if _, err := Resolve(entry, VariantSelection{Height: 0, Width: 4, Quantity: 1}); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Errorf("missing dimensions: err = %v, want ErrInvalidSelection", err)
	}
}

func TestTransformerBrackets(t *testing.T) {
	cases := []struct {
		area  float64
		name  string
		price float64
	}{
		{50, "30W Transformer", 9500},
		{51, "50W Transformer", 12500},
		{85, "50W Transformer", 12500},
		{160, "100W Transformer", 23000},
		{300, "200W Transformer", 30000},
		{630, "500W Transformer", 40000},
		{631, "500W+ Transformer", 40000},
	}
	for _, tc := range cases {
		name, price := transformerFor(tc.area)
		if name != tc.name || price != tc.price {
			t.Errorf("transformerFor(%v) = %s/%v, want %s/%v", tc.area, name, price, tc.name, tc.price)
		}
	}
}

func TestResolveLightingWifiUpcharge(t *testing.T) {
	entry := CatalogEntry{
		ID:       "lt-2",
		Name:     "Strip Light",
		Category: domain.CategoryLighting,
		Variants: []VariantOption{{Name: "5m", Price: 3200, WifiUpcharge: 500}},
	}

	zigbee, err := Resolve(entry, VariantSelection{Variant: "5m", ConnectionType: "zigbee", Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}
	if zigbee.TotalPrice != 9600 || zigbee.Model != "Zigbee" {
		t.Errorf("zigbee = %v (%s), want 9600 Zigbee", zigbee.TotalPrice, zigbee.Model)
	}

	wifi, err := Resolve(entry, VariantSelection{Variant: "5m", ConnectionType: "wifi", Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}
	// The upcharge is one-time, not per unit.
	if wifi.TotalPrice != 9600+500 || wifi.Model != "Wifi" {
		t.Errorf("wifi = %v (%s), want 10100 Wifi", wifi.TotalPrice, wifi.Model)
	}
}

func TestResolveSecurityAccessoryBundle(t *testing.T) {
	entry := CatalogEntry{
		ID:        "sec-3",
		Name:      "SP-05 Security Panel",
		Category:  domain.CategorySecurity,
		BasePrice: 8500,
		Accessories: []AccessoryOption{
			{ID: "door", Name: "Door Sensor", Price: 1200},
			{ID: "pir", Name: "Motion Sensor", Price: 1800},
		},
	}
	ps, err := Resolve(entry, VariantSelection{
		Quantity:     2,
		AccessoryIDs: []string{"door", "pir"},
		AccessoryQty: map[string]int{"door": 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	// 8500x2 + door 1200x2 + pir 1800, accessories once per line.
	if ps.TotalPrice != 17000+2400+1800 {
		t.Errorf("total = %v, want 21200", ps.TotalPrice)
	}
}

func TestResolveServiceIsFree(t *testing.T) {
	entry := CatalogEntry{ID: "svc-1", Name: "Consultancy Services", Category: domain.CategoryService}
	ps, err := Resolve(entry, VariantSelection{Quantity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if ps.TotalPrice != 0 || ps.UnitPrice != 0 {
		t.Errorf("service priced at %v/%v, want free", ps.UnitPrice, ps.TotalPrice)
	}
}

package cart

import (
	"fmt"

	"github.com/sohubtech/homestore/internal/domain"
)

const (
	defaultEngravingPrice        = 200.0
	switchInstallationCharge     = 2000.0
	switchInstallationMaxQty     = 3
	curtainInstallationPerWindow = 3500.0
	filmSiteVisitThreshold       = 200000.0
)

type pricer func(e CatalogEntry, sel VariantSelection, unit float64, accs []SelectedAccessory) (PricedSelection, error)

var pricers = map[domain.Category]pricer{
	domain.CategorySwitch:   priceSwitch,
	domain.CategoryCurtain:  priceCurtain,
	domain.CategoryFilm:     priceFilm,
	domain.CategorySecurity: priceSecurity,
	domain.CategoryLighting: priceLighting,
	domain.CategoryService:  priceService,
}

// Resolve turns a catalog entry plus a dialog selection into a priced,
// cart-ready configuration. It owns all selection validation; the cart engine
// assumes its input is valid.
func Resolve(entry CatalogEntry, sel VariantSelection) (PricedSelection, error) {
	if sel.Quantity < 1 {
		return PricedSelection{}, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidSelection)
	}
	if sel.EngravingText != "" && !entry.EngravingAvailable {
		return PricedSelection{}, fmt.Errorf("%w: engraving not offered on %q", domain.ErrInvalidSelection, entry.Name)
	}

	unit, err := resolveUnitPrice(entry, sel)
	if err != nil {
		return PricedSelection{}, err
	}
	accs, err := resolveAccessories(entry, sel)
	if err != nil {
		return PricedSelection{}, err
	}

	price, ok := pricers[entry.Category]
	if !ok {
		// Programmer error: entries are shaped through ParseCategory.
		return PricedSelection{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidSelection, entry.Category)
	}
	ps, err := price(entry, sel, unit, accs)
	if err != nil {
		return PricedSelection{}, err
	}
	ps.CatalogID = entry.ID
	ps.Category = entry.Category
	if ps.Name == "" {
		ps.Name = entry.Name
	}
	if len(entry.Images) > 0 {
		ps.Image = entry.Images[0]
	}
	ps.TrackSize = sel.TrackSize
	ps.ConnectionType = sel.ConnectionType
	return ps, nil
}

// resolveUnitPrice picks the selected variant's rate, preferring a discount
// when one is set below the list price.
func resolveUnitPrice(entry CatalogEntry, sel VariantSelection) (float64, error) {
	if sel.Variant == "" {
		return discounted(entry.BasePrice, entry.DiscountPrice), nil
	}
	for _, v := range entry.Variants {
		if v.Name == sel.Variant {
			return discounted(v.Price, v.DiscountPrice), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown variant %q", domain.ErrInvalidSelection, sel.Variant)
}

func discounted(list, discount float64) float64 {
	if discount > 0 && discount < list {
		return discount
	}
	return list
}

func resolveAccessories(entry CatalogEntry, sel VariantSelection) ([]SelectedAccessory, error) {
	if len(sel.AccessoryIDs) == 0 {
		return nil, nil
	}
	byID := map[string]AccessoryOption{}
	for _, a := range entry.Accessories {
		byID[a.ID] = a
	}
	out := make([]SelectedAccessory, 0, len(sel.AccessoryIDs))
	for _, id := range sel.AccessoryIDs {
		opt, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown accessory %q", domain.ErrInvalidSelection, id)
		}
		qty := sel.AccessoryQty[id]
		if qty < 1 {
			qty = 1
		}
		out = append(out, SelectedAccessory{ID: opt.ID, Name: opt.Name, Price: opt.Price, Qty: qty})
	}
	return out, nil
}

func priceSwitch(e CatalogEntry, sel VariantSelection, unit float64, accs []SelectedAccessory) (PricedSelection, error) {
	ps := PricedSelection{UnitPrice: unit, Quantity: sel.Quantity, Accessories: accs}
	if sel.EngravingText != "" {
		per := e.EngravingPrice
		if per <= 0 {
			per = defaultEngravingPrice
		}
		ps.EngravingCharge = per * float64(sel.Quantity)
		ps.EngravingText = sel.EngravingText
		ps.Name = fmt.Sprintf("%s (Engraved: %q)", e.Name, sel.EngravingText)
	}
	if sel.Installation {
		if sel.Quantity > switchInstallationMaxQty {
			return PricedSelection{}, domain.ErrQuantityCapped
		}
		ps.InstallationCharge = switchInstallationCharge
		// Installation bakes the line into a flat total so the one-time
		// charge is never multiplied on later quantity changes.
		ps.Flat = true
	}
	ps.TotalPrice = ps.UnitPrice*float64(sel.Quantity) + ps.EngravingCharge + ps.InstallationCharge + accessoriesSum(accs)
	return ps, nil
}

func priceCurtain(e CatalogEntry, sel VariantSelection, unit float64, accs []SelectedAccessory) (PricedSelection, error) {
	tier := sel.TrackTier
	if tier == "" {
		tier = TrackStandard
	}
	rate, ok := e.TrackRates[tier]
	if !ok {
		return PricedSelection{}, fmt.Errorf("%w: unknown track tier %q", domain.ErrInvalidSelection, tier)
	}
	if rate <= 0 {
		return PricedSelection{}, fmt.Errorf("%w: %s track is quoted on request", domain.ErrInvalidSelection, tier)
	}
	ps := PricedSelection{UnitPrice: rate, Quantity: sel.Quantity, Accessories: accs, Flat: true}
	if sel.Installation {
		ps.InstallationCharge = curtainInstallationPerWindow * float64(sel.Quantity)
	}
	if tier == TrackLarge {
		ps.Notes = append(ps.Notes, "Large track requires two motors")
	}
	if sel.TrackSize > 0 {
		ps.Name = fmt.Sprintf("%s (%.0f feet)", e.Name, sel.TrackSize)
	}
	ps.TotalPrice = rate*float64(sel.Quantity) + ps.InstallationCharge + accessoriesSum(accs)
	return ps, nil
}

func priceFilm(e CatalogEntry, sel VariantSelection, unit float64, accs []SelectedAccessory) (PricedSelection, error) {
	if sel.Height <= 0 || sel.Width <= 0 {
		return PricedSelection{}, fmt.Errorf("%w: film panels need height and width", domain.ErrInvalidSelection)
	}
	area := sel.Height * sel.Width * float64(sel.Quantity)
	amount := unit * area

	name, trPrice := transformerFor(area)
	accs = append(accs, SelectedAccessory{ID: "transformer", Name: name, Price: trPrice, Qty: 1})

	ps := PricedSelection{
		UnitPrice: unit,
		Quantity:  sel.Quantity,
		Flat:      true,
		Name:      fmt.Sprintf("%s (%.0f' x %.0f' - Qty: %d)", e.Name, sel.Height, sel.Width, sel.Quantity),
	}
	install, siteVisit := filmInstallationFor(amount)
	if siteVisit {
		ps.Notes = append(ps.Notes, "Site visit required for installation proposal")
	} else {
		ps.InstallationCharge = install
	}
	ps.Accessories = accs
	// Transformer and installation are one-time; the flat total carries them.
	ps.TotalPrice = amount + ps.InstallationCharge + accessoriesSum(accs)
	return ps, nil
}

// transformerFor sizes the PDLC transformer by total panel area in sq ft.
func transformerFor(area float64) (string, float64) {
	switch {
	case area <= 50:
		return "30W Transformer", 9500
	case area <= 85:
		return "50W Transformer", 12500
	case area <= 160:
		return "100W Transformer", 23000
	case area <= 300:
		return "200W Transformer", 30000
	case area <= 630:
		return "500W Transformer", 40000
	default:
		return "500W+ Transformer", 40000
	}
}

func filmInstallationFor(amount float64) (charge float64, siteVisit bool) {
	switch {
	case amount >= filmSiteVisitThreshold:
		return 0, true
	case amount >= 150000:
		return 20000, false
	case amount >= 100000:
		return 15000, false
	case amount >= 50000:
		return 8000, false
	default:
		return 5000, false
	}
}

func priceSecurity(e CatalogEntry, sel VariantSelection, unit float64, accs []SelectedAccessory) (PricedSelection, error) {
	ps := PricedSelection{UnitPrice: unit, Quantity: sel.Quantity, Accessories: accs, Model: sel.Variant}
	ps.TotalPrice = unit*float64(sel.Quantity) + accessoriesSum(accs)
	return ps, nil
}

func priceLighting(e CatalogEntry, sel VariantSelection, unit float64, accs []SelectedAccessory) (PricedSelection, error) {
	ps := PricedSelection{UnitPrice: unit, Quantity: sel.Quantity, Accessories: accs, Flat: true}
	wifiUp := 0.0
	if sel.ConnectionType == "wifi" {
		for _, v := range e.Variants {
			if v.Name == sel.Variant {
				wifiUp = v.WifiUpcharge
			}
		}
		ps.Model = "Wifi"
	} else {
		ps.Model = "Zigbee"
	}
	if sel.Installation {
		ps.Notes = append(ps.Notes, "Installation team will contact for setup")
	}
	// The wifi upcharge covers the hub pairing, charged once per line.
	ps.TotalPrice = unit*float64(sel.Quantity) + wifiUp + accessoriesSum(accs)
	return ps, nil
}

func priceService(e CatalogEntry, sel VariantSelection, unit float64, accs []SelectedAccessory) (PricedSelection, error) {
	return PricedSelection{
		UnitPrice: 0,
		Quantity:  1,
		Notes:     []string{"Consultation Service"},
	}, nil
}

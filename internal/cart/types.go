package cart

import "github.com/sohubtech/homestore/internal/domain"

// TrackTier sizes a curtain track. Each tier maps to a whole-window rate on
// the catalog entry; a zero rate means the tier is quoted on request.
type TrackTier string

const (
	TrackStandard   TrackTier = "standard"
	TrackLarge      TrackTier = "large"
	TrackExtraLarge TrackTier = "extra_large"
)

// CatalogEntry is the resolver's read-only view of a purchasable product,
// shaped from the stored product row at page load. Prices are BDT.
type CatalogEntry struct {
	ID            string
	Name          string
	Category      domain.Category
	BasePrice     float64
	DiscountPrice float64
	Stock         int

	EngravingAvailable bool
	EngravingPrice     float64

	Variants    []VariantOption
	Accessories []AccessoryOption
	TrackRates  map[TrackTier]float64
	Images      []string
}

type VariantOption struct {
	Name          string
	Price         float64
	DiscountPrice float64
	WifiUpcharge  float64
	Color         string
}

type AccessoryOption struct {
	ID    string
	Name  string
	Price float64
}

// VariantSelection is the shopper's concrete configuration of an entry,
// scoped to one open configuration dialog.
type VariantSelection struct {
	Variant        string
	ConnectionType string // zigbee or wifi
	TrackTier      TrackTier
	TrackSize      float64 // feet, informational
	Height         float64 // feet, film panels
	Width          float64
	Color          string
	AccessoryIDs   []string
	AccessoryQty   map[string]int // defaults to 1 per selected accessory
	EngravingText  string
	Installation   bool
	Quantity       int
}

// SelectedAccessory is one resolved add-on. Its subtotal is charged once per
// cart line regardless of the line's quantity.
type SelectedAccessory struct {
	ID    string
	Name  string
	Price float64
	Qty   int
}

func (a SelectedAccessory) Subtotal() float64 { return a.Price * float64(a.Qty) }

// PricedSelection is a fully priced configuration ready for cart insertion.
type PricedSelection struct {
	CatalogID string
	Name      string
	Category  domain.Category

	// UnitPrice is the per-unit rate after discounts. Engraving is reported
	// separately in EngravingCharge and folded per unit at cart insertion.
	UnitPrice          float64
	Quantity           int
	InstallationCharge float64
	EngravingCharge    float64
	Accessories        []SelectedAccessory
	TotalPrice         float64

	// Flat marks categories whose line total is computed here once rather
	// than re-derived as unit price times quantity.
	Flat bool

	TrackSize      float64
	Model          string
	ConnectionType string
	EngravingText  string
	Image          string
	Notes          []string
}

func accessoriesSum(accs []SelectedAccessory) float64 {
	sum := 0.0
	for _, a := range accs {
		sum += a.Subtotal()
	}
	return sum
}

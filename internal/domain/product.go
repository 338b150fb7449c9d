package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Slug          string     `gorm:"uniqueIndex;size:140"`
	Name          string     `gorm:"size:180"`
	Category      string     `gorm:"size:100;index"`
	SubcategoryID *uuid.UUID `gorm:"type:uuid;index"`
	BasePrice     float64    `gorm:"type:decimal(12,2)"`
	DiscountPrice float64    `gorm:"type:decimal(12,2);default:0"`
	Stock         int        `gorm:"type:int;default:0"`
	SerialOrder   int        `gorm:"type:int;default:0"`

	ShortDesc      string            `gorm:"type:text"`
	DetailedDesc   string            `gorm:"type:text"`
	Features       string            `gorm:"type:text"`
	Specifications map[string]string `gorm:"type:jsonb;serializer:json"`
	Warranty       string            `gorm:"type:text"`
	Brand          string            `gorm:"size:100"`
	Model          string            `gorm:"size:140"`

	// Switch engraving. Price is per unit, charged only when text is given.
	EngravingAvailable bool    `gorm:"default:false"`
	EngravingPrice     float64 `gorm:"type:decimal(12,2);default:0"`

	// Curtain track tiers, BDT per window. Zero means quote on request.
	TrackRateStandard float64 `gorm:"type:decimal(12,2);default:0"`
	TrackRateLarge    float64 `gorm:"type:decimal(12,2);default:0"`
	TrackRateXL       float64 `gorm:"type:decimal(12,2);default:0"`

	InstallationAvailable bool `gorm:"default:true"`
	Active                bool `gorm:"default:true;index"`

	Images      []Image
	Variants    []Variant
	Accessories []Accessory

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Variant struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid;index"`
	Name          string    `gorm:"size:120"` // "1 Gang", "2 Gang", "Zigbee", ...
	Price         float64   `gorm:"type:decimal(12,2)"`
	DiscountPrice float64   `gorm:"type:decimal(12,2);default:0"`
	WifiUpcharge  float64   `gorm:"type:decimal(12,2);default:0"`
	Color         string    `gorm:"size:60"`
	SKU           string    `gorm:"size:100;index"`
	Stock         int       `gorm:"type:int;default:0"`
	ImageURL      string    `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Accessory is an add-on sold alongside a security bundle (sensors, sirens,
// cards). Its price is charged once per cart line, never scaled by quantity.
type Accessory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	Name      string    `gorm:"size:140"`
	Price     float64   `gorm:"type:decimal(12,2)"`
	ImageURL  string    `gorm:"size:255"`
	CreatedAt time.Time
}

type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	URL       string    `gorm:"size:255"`
	Alt       string    `gorm:"size:140"`
	Position  int       `gorm:"type:int;default:0"`
	CreatedAt time.Time
}

type ProductCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;uniqueIndex"`
	ImageURL  string    `gorm:"size:255"`
	Position  int       `gorm:"type:int;default:0"`
	IsActive  bool      `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductSubcategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;index"`
	Name       string    `gorm:"size:100"`
	Position   int       `gorm:"type:int;default:0"`
	IsActive   bool      `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ProductFilter struct {
	Category string
	Query    string
	Active   *bool
	InStock  bool
	Sort     string
	Page     int
	PageSize int
}

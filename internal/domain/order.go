package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInstalling OrderStatus = "installing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderNumber string      `gorm:"size:40;uniqueIndex"`
	Status      OrderStatus `gorm:"type:varchar(30);index"`
	Items       []OrderItem

	CustomerName    string     `gorm:"size:140"`
	CustomerEmail   string     `gorm:"size:140;index"`
	CustomerPhone   string     `gorm:"size:50;index"`
	CustomerAddress string     `gorm:"size:255"`
	CustomerID      *uuid.UUID `gorm:"type:uuid;index"`

	TotalAmount   float64 `gorm:"type:decimal(12,2)"`
	PaymentMethod string  `gorm:"size:30;index"` // cod, online, free
	Notified      bool    `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots one cart line at submission time. LineTotal already
// folds in installation, engraving and accessory charges per the cart rules,
// so reports sum it directly.
type OrderItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;index"`
	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	Title     string     `gorm:"size:220"`
	Category  string     `gorm:"size:100"`
	Qty       int        `gorm:"not null"`
	UnitPrice float64    `gorm:"type:decimal(12,2)"`
	LineTotal float64    `gorm:"type:decimal(12,2)"`

	TrackSize          float64 `gorm:"type:decimal(8,2);default:0"`
	Model              string  `gorm:"size:60"`
	ConnectionType     string  `gorm:"size:30"`
	InstallationCharge float64 `gorm:"type:decimal(12,2);default:0"`
	EngravingText      string  `gorm:"size:120"`
	Accessories        string  `gorm:"type:text"` // "name x1 (price); ..."
}

// Quote is a saved cart snapshot a shopper asked to keep by email, from the
// storefront's "save for later" flow.
type Quote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:140;index"`
	ItemsJSON string    `gorm:"type:text"`
	Total     float64   `gorm:"type:decimal(12,2)"`
	CreatedAt time.Time
}

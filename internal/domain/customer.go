package domain

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email       string    `gorm:"size:140;uniqueIndex"`
	Name        string    `gorm:"size:140"`
	Phone       string    `gorm:"size:60;index"`
	Address     string    `gorm:"size:255"`
	TotalOrders int       `gorm:"type:int;default:0"`
	TotalSpent  float64   `gorm:"type:decimal(12,2);default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AdminUser is a back-office account. Authentication itself is an HMAC token
// issued by the HTTP layer; this record carries identity and role.
type AdminUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:140;uniqueIndex"`
	Name         string    `gorm:"size:140"`
	Role         string    `gorm:"size:30;default:staff"` // admin, staff
	PasswordHash string    `gorm:"size:120"`
	Active       bool      `gorm:"default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

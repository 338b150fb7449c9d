package domain

import (
	"context"
	"io"

	"github.com/google/uuid"
)

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddImages(ctx context.Context, productID uuid.UUID, imgs []Image) error
	ClearImages(ctx context.Context, productID uuid.UUID) ([]string, error)

	SaveVariant(ctx context.Context, v *Variant) error
	ListVariants(ctx context.Context, productID uuid.UUID) ([]Variant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	SaveAccessory(ctx context.Context, a *Accessory) error
	ListAccessories(ctx context.Context, productID uuid.UUID) ([]Accessory, error)
	DeleteAccessory(ctx context.Context, id uuid.UUID) error
}

type CategoryRepo interface {
	ListCategories(ctx context.Context) ([]ProductCategory, error)
	SaveCategory(ctx context.Context, c *ProductCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]ProductSubcategory, error)
	SaveSubcategory(ctx context.Context, sc *ProductSubcategory) error
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, f OrderFilter) ([]Order, int64, error)
	Search(ctx context.Context, query string) ([]Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderFilter struct {
	Status   OrderStatus
	Email    string
	Page     int
	PageSize int
}

type CustomerRepo interface {
	Save(ctx context.Context, c *Customer) error
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	List(ctx context.Context, page, pageSize int) ([]Customer, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepo interface {
	Save(ctx context.Context, u *AdminUser) error
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)
	List(ctx context.Context) ([]AdminUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type QuoteRepo interface {
	Save(ctx context.Context, q *Quote) error
	ListByEmail(ctx context.Context, email string) ([]Quote, error)
}

// FileStorage stores uploaded product images and returns a public URL path.
type FileStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// Notifier delivers the order confirmation. Best effort: callers log failures
// and never fail the order on a notification error.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, o *Order) error
}

// CatalogCache fronts hot catalog reads. A nil-safe no-op implementation is
// used when no cache backend is configured.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, v any, tags ...string)
	InvalidateTags(ctx context.Context, tags ...string)
}

package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/domain"
)

type OrderUC struct {
	Orders domain.OrderRepo
}

func (uc *OrderUC) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 50
	}
	return uc.Orders.List(ctx, f)
}

func (uc *OrderUC) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return uc.Orders.FindByID(ctx, id)
}

// Search matches order number or customer phone, for the admin order screen.
func (uc *OrderUC) Search(ctx context.Context, query string) ([]domain.Order, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	return uc.Orders.Search(ctx, q)
}

var validTransitions = map[domain.OrderStatus]bool{
	domain.OrderStatusPending:    true,
	domain.OrderStatusConfirmed:  true,
	domain.OrderStatusInstalling: true,
	domain.OrderStatusDelivered:  true,
	domain.OrderStatusCancelled:  true,
}

func (uc *OrderUC) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !validTransitions[status] {
		return nil, domain.ErrInvalidSelection
	}
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = status
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *OrderUC) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.Orders.Delete(ctx, id)
}

// Track is the public order lookup: the order number plus the phone it was
// placed with, so order numbers alone leak nothing.
func (uc *OrderUC) Track(ctx context.Context, orderNumber, phone string) (*domain.Order, error) {
	o, err := uc.Orders.FindByNumber(ctx, strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, err
	}
	if normalizePhone(o.CustomerPhone) != normalizePhone(phone) {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func normalizePhone(p string) string {
	var b strings.Builder
	for _, r := range p {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

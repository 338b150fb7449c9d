package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sohubtech/homestore/internal/cart"
	"github.com/sohubtech/homestore/internal/domain"
)

type CheckoutRequest struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	PaymentMethod string
}

// Confirmation echoes back what the thank-you screen needs.
type Confirmation struct {
	OrderNumber     string
	TotalAmount     float64
	TotalItems      int
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   string
}

type CheckoutUC struct {
	Orders    domain.OrderRepo
	Customers domain.CustomerRepo
	Quotes    domain.QuoteRepo
	Notifier  domain.Notifier
}

// Submit validates the contact form, snapshots the cart into an order and
// persists it. The cart is only cleared after the order is stored; storage
// failure leaves it intact so the shopper can retry. The confirmation
// notification and the customer-profile upsert are best effort.
func (uc *CheckoutUC) Submit(ctx context.Context, c *cart.Cart, req CheckoutRequest) (*Confirmation, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	address := strings.TrimSpace(req.Address)
	if name == "" || email == "" || phone == "" || address == "" {
		return nil, domain.ErrMissingFields
	}
	if c == nil || c.Len() == 0 {
		return nil, domain.ErrEmptyCart
	}

	totals := c.Totals()
	payment := strings.TrimSpace(req.PaymentMethod)
	if payment == "" {
		payment = "cod"
	}
	if totals.TotalPrice <= 0 {
		payment = "free"
	}

	o := &domain.Order{
		ID:              uuid.New(),
		OrderNumber:     fmt.Sprintf("ORD%d", time.Now().UnixMilli()),
		Status:          domain.OrderStatusPending,
		CustomerName:    name,
		CustomerEmail:   strings.ToLower(email),
		CustomerPhone:   phone,
		CustomerAddress: address,
		TotalAmount:     totals.TotalPrice,
		PaymentMethod:   payment,
	}
	for _, l := range c.Lines() {
		item := domain.OrderItem{
			ID:                 uuid.New(),
			Title:              l.Name,
			Category:           l.Category.Label(),
			Qty:                l.Quantity,
			UnitPrice:          l.Price,
			LineTotal:          l.Total(),
			TrackSize:          l.TrackSize,
			Model:              l.Model,
			ConnectionType:     l.ConnectionType,
			InstallationCharge: l.InstallationCharge,
			EngravingText:      l.EngravingText,
			Accessories:        formatAccessories(l.Accessories),
		}
		if pid, err := uuid.Parse(l.CatalogID); err == nil {
			item.ProductID = &pid
		}
		o.Items = append(o.Items, item)
	}

	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	uc.upsertCustomer(ctx, o)
	if uc.Notifier != nil {
		// Confirmation delivery never blocks or fails the order.
		go func(o *domain.Order) {
			if err := uc.Notifier.SendOrderConfirmation(context.Background(), o); err != nil {
				log.Warn().Err(err).Str("order", o.OrderNumber).Msg("order confirmation not delivered")
			}
		}(o)
	}

	c.Clear()

	return &Confirmation{
		OrderNumber:     o.OrderNumber,
		TotalAmount:     o.TotalAmount,
		TotalItems:      totals.TotalItems,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		PaymentMethod:   o.PaymentMethod,
	}, nil
}

func (uc *CheckoutUC) upsertCustomer(ctx context.Context, o *domain.Order) {
	if uc.Customers == nil {
		return
	}
	cust, err := uc.Customers.FindByEmail(ctx, o.CustomerEmail)
	if err != nil && err != domain.ErrNotFound {
		log.Warn().Err(err).Msg("customer lookup failed, order kept")
		return
	}
	if cust == nil {
		cust = &domain.Customer{ID: uuid.New(), Email: o.CustomerEmail}
	}
	cust.Name = o.CustomerName
	cust.Phone = o.CustomerPhone
	cust.Address = o.CustomerAddress
	cust.TotalOrders++
	cust.TotalSpent += o.TotalAmount
	if err := uc.Customers.Save(ctx, cust); err != nil {
		log.Warn().Err(err).Msg("customer save failed, order kept")
		return
	}
	o.CustomerID = &cust.ID
	if err := uc.Orders.Save(ctx, o); err != nil {
		log.Warn().Err(err).Msg("order customer link not saved")
	}
}

// SaveQuote persists an emailable snapshot of the cart without placing an
// order, for the "save for later" flow.
func (uc *CheckoutUC) SaveQuote(ctx context.Context, c *cart.Cart, email string) (*domain.Quote, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrMissingFields
	}
	if c == nil || c.Len() == 0 {
		return nil, domain.ErrEmptyCart
	}
	items, err := json.Marshal(c.Lines())
	if err != nil {
		return nil, err
	}
	q := &domain.Quote{
		ID:        uuid.New(),
		Email:     email,
		ItemsJSON: string(items),
		Total:     c.Totals().TotalPrice,
	}
	if err := uc.Quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// QuotesByEmail lists a shopper's saved quotes for the admin follow-up screen.
func (uc *CheckoutUC) QuotesByEmail(ctx context.Context, email string) ([]domain.Quote, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrMissingFields
	}
	return uc.Quotes.ListByEmail(ctx, email)
}

func formatAccessories(accs []cart.SelectedAccessory) string {
	if len(accs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(accs))
	for _, a := range accs {
		parts = append(parts, fmt.Sprintf("%s x%d (%.0f)", a.Name, a.Qty, a.Subtotal()))
	}
	return strings.Join(parts, "; ")
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/cart"
	"github.com/sohubtech/homestore/internal/domain"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*domain.Order
	fail   bool
}

func (r *fakeOrderRepo) Save(_ context.Context, o *domain.Order) error {
	if r.fail {
		return errors.New("db down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ex := range r.orders {
		if ex.ID == o.ID {
			r.orders[i] = o
			return nil
		}
	}
	r.orders = append(r.orders, o)
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, num string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == num {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOrderRepo) List(_ context.Context, _ domain.OrderFilter) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) Search(_ context.Context, q string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if strings.Contains(o.OrderNumber, q) || strings.Contains(o.CustomerPhone, q) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeCustomerRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Customer
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byEmail == nil {
		r.byEmail = map[string]*domain.Customer{}
	}
	r.byEmail[c.Email] = c
	return nil
}

func (r *fakeCustomerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byEmail[email]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, _ string) (*domain.Customer, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeCustomerRepo) List(_ context.Context, _, _ int) ([]domain.Customer, int64, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type fakeQuoteRepo struct {
	saved []*domain.Quote
}

func (r *fakeQuoteRepo) Save(_ context.Context, q *domain.Quote) error {
	r.saved = append(r.saved, q)
	return nil
}

func (r *fakeQuoteRepo) ListByEmail(_ context.Context, email string) ([]domain.Quote, error) {
	var out []domain.Quote
	for _, q := range r.saved {
		if q.Email == email {
			out = append(out, *q)
		}
	}
	return out, nil
}

func cartWithSwitch(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New(nil)
	c.Add(cart.PricedSelection{
		CatalogID:  "sw-1",
		Name:       "Smart Switch 2 Gang",
		Category:   domain.CategorySwitch,
		UnitPrice:  6750,
		Quantity:   2,
		TotalPrice: 13500,
	})
	return c
}

func validRequest() CheckoutRequest {
	return CheckoutRequest{
		Name:    "Rahim Uddin",
		Email:   "Rahim@Example.com",
		Phone:   "01711-000000",
		Address: "House 12, Road 5, Dhanmondi, Dhaka",
	}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := &CheckoutUC{Orders: repo}
	c := cartWithSwitch(t)

	for _, mutate := range []func(*CheckoutRequest){
		func(r *CheckoutRequest) { r.Name = "  " },
		func(r *CheckoutRequest) { r.Email = "" },
		func(r *CheckoutRequest) { r.Phone = "" },
		func(r *CheckoutRequest) { r.Address = "\t" },
	} {
		req := validRequest()
		mutate(&req)
		if _, err := uc.Submit(context.Background(), c, req); !errors.Is(err, domain.ErrMissingFields) {
			t.Fatalf("want ErrMissingFields, got %v", err)
		}
	}
	if len(repo.orders) != 0 {
		t.Fatalf("no order should be created, got %d", len(repo.orders))
	}
	if c.Len() != 1 {
		t.Fatalf("cart must stay intact, got %d lines", c.Len())
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	repo := &fakeOrderRepo{}
	uc := &CheckoutUC{Orders: repo}

	if _, err := uc.Submit(context.Background(), cart.New(nil), validRequest()); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
	if len(repo.orders) != 0 {
		t.Fatalf("no order should be created, got %d", len(repo.orders))
	}
}

func TestSubmitCreatesOrderAndClearsCart(t *testing.T) {
	repo := &fakeOrderRepo{}
	customers := &fakeCustomerRepo{}
	uc := &CheckoutUC{Orders: repo, Customers: customers}
	c := cartWithSwitch(t)

	conf, err := uc.Submit(context.Background(), c, validRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.HasPrefix(conf.OrderNumber, "ORD") {
		t.Fatalf("order number %q lacks ORD prefix", conf.OrderNumber)
	}
	if conf.TotalAmount != 13500 {
		t.Fatalf("total = %v, want 13500", conf.TotalAmount)
	}
	if conf.PaymentMethod != "cod" {
		t.Fatalf("payment = %q, want cod", conf.PaymentMethod)
	}
	if c.Len() != 0 {
		t.Fatalf("cart should be cleared, got %d lines", c.Len())
	}
	if len(repo.orders) != 1 {
		t.Fatalf("orders stored = %d, want 1", len(repo.orders))
	}
	o := repo.orders[0]
	if o.CustomerEmail != "rahim@example.com" {
		t.Fatalf("email not lowercased: %q", o.CustomerEmail)
	}
	if len(o.Items) != 1 || o.Items[0].Qty != 2 || o.Items[0].LineTotal != 13500 {
		t.Fatalf("unexpected item snapshot: %+v", o.Items)
	}

	cust, err := customers.FindByEmail(context.Background(), "rahim@example.com")
	if err != nil {
		t.Fatalf("customer not upserted: %v", err)
	}
	if cust.TotalOrders != 1 || cust.TotalSpent != 13500 {
		t.Fatalf("customer aggregates = %d/%v", cust.TotalOrders, cust.TotalSpent)
	}
}

func TestSubmitKeepsCartOnStorageFailure(t *testing.T) {
	repo := &fakeOrderRepo{fail: true}
	uc := &CheckoutUC{Orders: repo}
	c := cartWithSwitch(t)

	if _, err := uc.Submit(context.Background(), c, validRequest()); err == nil {
		t.Fatal("want error when storage fails")
	}
	if c.Len() != 1 {
		t.Fatalf("cart must survive storage failure, got %d lines", c.Len())
	}
}

func TestSubmitAccumulatesCustomerTotals(t *testing.T) {
	repo := &fakeOrderRepo{}
	customers := &fakeCustomerRepo{}
	uc := &CheckoutUC{Orders: repo, Customers: customers}

	for i := 0; i < 2; i++ {
		if _, err := uc.Submit(context.Background(), cartWithSwitch(t), validRequest()); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	cust, _ := customers.FindByEmail(context.Background(), "rahim@example.com")
	if cust == nil || cust.TotalOrders != 2 || cust.TotalSpent != 27000 {
		t.Fatalf("aggregates after two orders: %+v", cust)
	}
}

func TestSaveQuote(t *testing.T) {
	quotes := &fakeQuoteRepo{}
	uc := &CheckoutUC{Quotes: quotes}
	c := cartWithSwitch(t)

	q, err := uc.SaveQuote(context.Background(), c, " Rahim@Example.com ")
	if err != nil {
		t.Fatalf("save quote: %v", err)
	}
	if q.Email != "rahim@example.com" || q.Total != 13500 {
		t.Fatalf("quote = %+v", q)
	}
	if c.Len() != 1 {
		t.Fatal("saving a quote must not clear the cart")
	}
	if _, err := uc.SaveQuote(context.Background(), cart.New(nil), "a@b.c"); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

func TestTrackRequiresMatchingPhone(t *testing.T) {
	repo := &fakeOrderRepo{}
	checkout := &CheckoutUC{Orders: repo}
	orders := &OrderUC{Orders: repo}

	conf, err := checkout.Submit(context.Background(), cartWithSwitch(t), validRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := orders.Track(context.Background(), conf.OrderNumber, "01711000000"); err != nil {
		t.Fatalf("track with matching phone: %v", err)
	}
	if _, err := orders.Track(context.Background(), conf.OrderNumber, "01899999999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound on phone mismatch, got %v", err)
	}
	if _, err := orders.Track(context.Background(), "ORD0", "01711000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown order, got %v", err)
	}
}

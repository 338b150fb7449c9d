package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/domain"
)

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := &fakeOrderRepo{}
	o := &domain.Order{ID: uuid.New(), OrderNumber: "ORD1", Status: domain.OrderStatusPending}
	if err := repo.Save(context.Background(), o); err != nil {
		t.Fatalf("seed: %v", err)
	}
	uc := &OrderUC{Orders: repo}

	if _, err := uc.UpdateStatus(context.Background(), o.ID, "shipped-maybe"); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("want ErrInvalidSelection, got %v", err)
	}
	got, _ := repo.FindByID(context.Background(), o.ID)
	if got.Status != domain.OrderStatusPending {
		t.Fatalf("status must be unchanged, got %q", got.Status)
	}
}

func TestUpdateStatusPersists(t *testing.T) {
	repo := &fakeOrderRepo{}
	o := &domain.Order{ID: uuid.New(), OrderNumber: "ORD2", Status: domain.OrderStatusPending}
	_ = repo.Save(context.Background(), o)
	uc := &OrderUC{Orders: repo}

	updated, err := uc.UpdateStatus(context.Background(), o.ID, domain.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.OrderStatusConfirmed {
		t.Fatalf("status = %q", updated.Status)
	}
	got, _ := repo.FindByID(context.Background(), o.ID)
	if got.Status != domain.OrderStatusConfirmed {
		t.Fatalf("stored status = %q", got.Status)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	uc := &OrderUC{Orders: &fakeOrderRepo{}}
	if _, err := uc.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatusDelivered); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSearchTrimsAndSkipsEmpty(t *testing.T) {
	repo := &fakeOrderRepo{}
	_ = repo.Save(context.Background(), &domain.Order{ID: uuid.New(), OrderNumber: "ORD77", CustomerPhone: "01712345678"})
	uc := &OrderUC{Orders: repo}

	got, err := uc.Search(context.Background(), "  ORD77 ")
	if err != nil || len(got) != 1 {
		t.Fatalf("search = %v, %v", got, err)
	}
	got, err = uc.Search(context.Background(), "   ")
	if err != nil || got != nil {
		t.Fatalf("blank query should return nothing, got %v, %v", got, err)
	}
}

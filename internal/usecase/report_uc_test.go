package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/domain"
)

func seedReportOrders(t *testing.T) *fakeOrderRepo {
	t.Helper()
	repo := &fakeOrderRepo{}
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []*domain.Order{
		{
			ID: uuid.New(), OrderNumber: "ORD1", Status: domain.OrderStatusDelivered,
			CustomerName: "Rahim", CustomerEmail: "rahim@example.com",
			TotalAmount: 20000, CreatedAt: base,
			Items: []domain.OrderItem{{Category: "Smart Switch", LineTotal: 20000}},
		},
		{
			ID: uuid.New(), OrderNumber: "ORD2", Status: domain.OrderStatusPending,
			CustomerName: "Mira", CustomerEmail: "mira@example.com",
			TotalAmount: 50000, CreatedAt: base.Add(24 * time.Hour),
			Items: []domain.OrderItem{{Category: "Smart Curtain", LineTotal: 50000}},
		},
		{
			ID: uuid.New(), OrderNumber: "ORD3", Status: domain.OrderStatusCancelled,
			CustomerName: "Karim", CustomerEmail: "karim@example.com",
			TotalAmount: 9999, CreatedAt: base.Add(36 * time.Hour),
		},
		{
			// Outside the reporting window.
			ID: uuid.New(), OrderNumber: "ORD4", Status: domain.OrderStatusDelivered,
			CustomerEmail: "old@example.com", TotalAmount: 777,
			CreatedAt: base.AddDate(0, -2, 0),
		},
	}
	for _, o := range orders {
		if err := repo.Save(context.Background(), o); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func TestSummaryExcludesCancelledAndOutOfRange(t *testing.T) {
	uc := &ReportUC{Orders: seedReportOrders(t)}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	sum, err := uc.Summary(context.Background(), from, to)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.OrderCount != 2 {
		t.Fatalf("order count = %d, want 2", sum.OrderCount)
	}
	if sum.Revenue != 70000 {
		t.Fatalf("revenue = %v, want 70000", sum.Revenue)
	}
	if sum.AverageOrder != 35000 {
		t.Fatalf("average = %v, want 35000", sum.AverageOrder)
	}
	if sum.ByStatus[domain.OrderStatusCancelled] != 1 {
		t.Fatalf("cancelled should still count by status: %v", sum.ByStatus)
	}
	if sum.ByCategory["Smart Curtain"] != 50000 || sum.ByCategory["Smart Switch"] != 20000 {
		t.Fatalf("by category = %v", sum.ByCategory)
	}
	if len(sum.TopCustomers) != 2 || sum.TopCustomers[0].Email != "mira@example.com" {
		t.Fatalf("top customers = %+v", sum.TopCustomers)
	}
}

func TestExportXLSXHasBothSheets(t *testing.T) {
	uc := &ReportUC{Orders: seedReportOrders(t)}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	f, err := uc.ExportXLSX(context.Background(), from, to)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Summary", "Orders"} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Fatalf("missing sheet %q", sheet)
		}
	}
	cell, err := f.GetCellValue("Orders", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if cell == "" {
		t.Fatal("orders sheet has no data rows")
	}
}

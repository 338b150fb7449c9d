package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sohubtech/homestore/internal/domain"
)

type ReportUC struct {
	Orders    domain.OrderRepo
	Customers domain.CustomerRepo
}

type SalesSummary struct {
	From         time.Time
	To           time.Time
	OrderCount   int
	Revenue      float64
	AverageOrder float64
	ByStatus     map[domain.OrderStatus]int
	ByCategory   map[string]float64
	TopCustomers []CustomerTotal
}

type CustomerTotal struct {
	Name   string
	Email  string
	Orders int
	Spent  float64
}

func (uc *ReportUC) Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	orders, err := uc.ordersInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	s := &SalesSummary{
		From:       from,
		To:         to,
		ByStatus:   make(map[domain.OrderStatus]int),
		ByCategory: make(map[string]float64),
	}
	byCustomer := make(map[string]*CustomerTotal)
	for i := range orders {
		o := &orders[i]
		s.ByStatus[o.Status]++
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		s.OrderCount++
		s.Revenue += o.TotalAmount
		for _, it := range o.Items {
			s.ByCategory[it.Category] += it.LineTotal
		}
		ct := byCustomer[o.CustomerEmail]
		if ct == nil {
			ct = &CustomerTotal{Name: o.CustomerName, Email: o.CustomerEmail}
			byCustomer[o.CustomerEmail] = ct
		}
		ct.Orders++
		ct.Spent += o.TotalAmount
	}
	if s.OrderCount > 0 {
		s.AverageOrder = s.Revenue / float64(s.OrderCount)
	}
	for _, ct := range byCustomer {
		s.TopCustomers = append(s.TopCustomers, *ct)
	}
	sortCustomerTotals(s.TopCustomers)
	if len(s.TopCustomers) > 10 {
		s.TopCustomers = s.TopCustomers[:10]
	}
	return s, nil
}

// ExportXLSX renders the sales report as a two-sheet workbook: a summary
// sheet and the raw order rows for the period.
func (uc *ReportUC) ExportXLSX(ctx context.Context, from, to time.Time) (*excelize.File, error) {
	sum, err := uc.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	orders, err := uc.ordersInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const summarySheet = "Summary"
	const ordersSheet = "Orders"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(ordersSheet); err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Period", fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))},
		{"Orders", sum.OrderCount},
		{"Revenue", sum.Revenue},
		{"Average order", sum.AverageOrder},
		{},
		{"Status", "Count"},
	}
	for st, n := range sum.ByStatus {
		rows = append(rows, []any{string(st), n})
	}
	rows = append(rows, []any{}, []any{"Category", "Revenue"})
	for cat, rev := range sum.ByCategory {
		rows = append(rows, []any{cat, rev})
	}
	rows = append(rows, []any{}, []any{"Top customers", "Email", "Orders", "Spent"})
	for _, ct := range sum.TopCustomers {
		rows = append(rows, []any{ct.Name, ct.Email, ct.Orders, ct.Spent})
	}
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	header := []any{"Order", "Date", "Status", "Customer", "Email", "Phone", "Total", "Payment"}
	for j, v := range header {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		f.SetCellValue(ordersSheet, cell, v)
	}
	for i := range orders {
		o := &orders[i]
		vals := []any{
			o.OrderNumber,
			o.CreatedAt.Format("2006-01-02 15:04"),
			string(o.Status),
			o.CustomerName,
			o.CustomerEmail,
			o.CustomerPhone,
			o.TotalAmount,
			o.PaymentMethod,
		}
		for j, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(ordersSheet, cell, v)
		}
	}
	return f, nil
}

func (uc *ReportUC) ordersInRange(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	var all []domain.Order
	page := 1
	for {
		batch, _, err := uc.Orders.List(ctx, domain.OrderFilter{Page: page, PageSize: 200})
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for _, o := range batch {
			if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
				continue
			}
			all = append(all, o)
		}
		if len(batch) < 200 {
			break
		}
		page++
	}
	return all, nil
}

func sortCustomerTotals(cs []CustomerTotal) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Spent > cs[j].Spent })
}

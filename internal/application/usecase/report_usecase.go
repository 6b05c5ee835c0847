// internal/application/usecase/report_usecase.go
package usecase

import (
	"context"
	"errors"
	"time"

	customerdom "simo/internal/domain/customer"
	orderdom "simo/internal/domain/order"
	productdom "simo/internal/domain/product"
)

var ErrReportInvalidRange = errors.New("report_usecase: invalid date range")

// ReportSummary aggregates a date range of orders.
type ReportSummary struct {
	TotalSales        float64 `json:"totalSales"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	UnitsSold         int     `json:"unitsSold"`
}

type DailySales struct {
	Day    time.Time `json:"day"`
	Orders int       `json:"orders"`
	Sales  float64   `json:"sales"`
}

type StatusSales struct {
	Status  string  `json:"status"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type ProductSales struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	UnitsSold   int     `json:"unitsSold"`
	Revenue     float64 `json:"revenue"`
}

// SalesReport is the admin date-range report.
type SalesReport struct {
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Summary     ReportSummary  `json:"summary"`
	Daily       []DailySales   `json:"daily"`
	ByStatus    []StatusSales  `json:"byStatus"`
	TopProducts []ProductSales `json:"topProducts"`
}

// DashboardStats is the admin landing-page snapshot.
type DashboardStats struct {
	TotalProducts  int     `json:"totalProducts"`
	TotalOrders    int     `json:"totalOrders"`
	TotalCustomers int     `json:"totalCustomers"`
	PendingOrders  int     `json:"pendingOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// ReportStore is the reporting read model (Postgres order archive).
type ReportStore interface {
	Summary(ctx context.Context, from, to time.Time) (ReportSummary, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	StatusBreakdown(ctx context.Context, from, to time.Time) ([]StatusSales, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

// ReportUsecase serves admin stats and date-range sales reports.
type ReportUsecase struct {
	store     ReportStore
	orders    orderdom.Repository
	products  productdom.Repository
	customers customerdom.Repository
}

func NewReportUsecase(
	store ReportStore,
	orders orderdom.Repository,
	products productdom.Repository,
	customers customerdom.Repository,
) *ReportUsecase {
	return &ReportUsecase{store: store, orders: orders, products: products, customers: customers}
}

// Stats assembles the dashboard counters. Order counts come from the source
// of truth (Firestore); revenue comes from the archive to keep the heavy
// aggregation off the document store.
func (uc *ReportUsecase) Stats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	var err error

	if s.TotalProducts, err = uc.products.CountActive(ctx); err != nil {
		return DashboardStats{}, err
	}
	if s.TotalCustomers, err = uc.customers.CountCustomers(ctx); err != nil {
		return DashboardStats{}, err
	}
	if s.TotalOrders, err = uc.orders.Count(ctx, orderdom.Filter{}); err != nil {
		return DashboardStats{}, err
	}
	pending := orderdom.StatusPending
	if s.PendingOrders, err = uc.orders.Count(ctx, orderdom.Filter{Status: &pending}); err != nil {
		return DashboardStats{}, err
	}
	if s.TotalRevenue, err = uc.store.TotalRevenue(ctx); err != nil {
		return DashboardStats{}, err
	}
	return s, nil
}

const topProductsLimit = 10

// Report builds the date-range sales report from the archive. The range is
// inclusive of both days; "to" is extended to end of day.
func (uc *ReportUsecase) Report(ctx context.Context, from, to time.Time) (SalesReport, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return SalesReport{}, ErrReportInvalidRange
	}
	from = from.UTC()
	to = to.UTC().Truncate(24 * time.Hour).Add(24*time.Hour - time.Nanosecond)

	r := SalesReport{From: from, To: to}
	var err error

	if r.Summary, err = uc.store.Summary(ctx, from, to); err != nil {
		return SalesReport{}, err
	}
	if r.Daily, err = uc.store.DailySales(ctx, from, to); err != nil {
		return SalesReport{}, err
	}
	if r.ByStatus, err = uc.store.StatusBreakdown(ctx, from, to); err != nil {
		return SalesReport{}, err
	}
	if r.TopProducts, err = uc.store.TopProducts(ctx, from, to, topProductsLimit); err != nil {
		return SalesReport{}, err
	}
	return r, nil
}

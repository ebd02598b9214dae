package service

import (
	"sort"
	"time"

	"go-bizkeeper/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultLowStockThreshold = 5
	DefaultSalesDays         = 7
	topProductsLimit         = 5
	recentOrdersLimit        = 5
)

type DashboardStats struct {
	TodayOrders      int             `json:"today_orders"`
	TodaySales       decimal.Decimal `json:"today_sales"`
	PendingOrders    int             `json:"pending_orders"`
	LowStockProducts int             `json:"low_stock_products"`
	TotalProducts    int             `json:"total_products"`
	TotalCustomers   int             `json:"total_customers"`
	RecentOrders     []model.Order   `json:"recent_orders"`
}

type DailySales struct {
	Date  string          `json:"date"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

type ProductSales struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalOrders     int             `json:"total_orders"`
	CompletedOrders int             `json:"completed_orders"`
	TotalCustomers  int             `json:"total_customers"`
	Daily           []DailySales    `json:"daily"`
	TopProducts     []ProductSales  `json:"top_products"`
}

type OrderLister interface {
	List() []model.Order
}

type ProductLister interface {
	List() []model.Product
}

type CustomerLister interface {
	List() []model.Customer
}

type ReportService interface {
	Dashboard(now time.Time) DashboardStats
	Sales(now time.Time, days int) SalesReport
}

type reportService struct {
	orders            OrderLister
	products          ProductLister
	customers         CustomerLister
	lowStockThreshold int
}

func NewReportService(orders OrderLister, products ProductLister, customers CustomerLister, lowStockThreshold int) ReportService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &reportService{
		orders:            orders,
		products:          products,
		customers:         customers,
		lowStockThreshold: lowStockThreshold,
	}
}

// Dashboard summarises today's activity. "Today" is the calendar day of now
// in now's location.
func (s *reportService) Dashboard(now time.Time) DashboardStats {
	orders := s.orders.List()
	products := s.products.List()

	stats := DashboardStats{
		TodaySales:     decimal.Zero,
		TotalProducts:  len(products),
		TotalCustomers: len(s.customers.List()),
	}
	for _, o := range orders {
		if sameDay(o.CreatedAt, now) {
			stats.TodayOrders++
			if o.Status != model.StatusCancelled {
				stats.TodaySales = stats.TodaySales.Add(o.Total)
			}
		}
		if o.Status == model.StatusPending {
			stats.PendingOrders++
		}
	}
	for _, p := range products {
		if p.Stock <= s.lowStockThreshold {
			stats.LowStockProducts++
		}
	}
	stats.RecentOrders = orders[:min(len(orders), recentOrdersLimit)]
	return stats
}

// Sales reports revenue over all non-cancelled orders, per-day totals for
// the last days days ending today (oldest first) and the top products by
// revenue.
func (s *reportService) Sales(now time.Time, days int) SalesReport {
	if days <= 0 {
		days = DefaultSalesDays
	}
	orders := s.orders.List()

	report := SalesReport{
		TotalRevenue:   decimal.Zero,
		TotalOrders:    len(orders),
		TotalCustomers: len(s.customers.List()),
		Daily:          make([]DailySales, days),
	}
	for i := range report.Daily {
		day := now.AddDate(0, 0, -(days - 1 - i))
		report.Daily[i] = DailySales{
			Date:  day.Format(time.DateOnly),
			Label: day.Format("Mon"),
			Total: decimal.Zero,
		}
	}

	byProduct := make(map[uuid.UUID]*ProductSales)
	for _, o := range orders {
		if o.Status == model.StatusDelivered {
			report.CompletedOrders++
		}
		if o.Status == model.StatusCancelled {
			continue
		}
		report.TotalRevenue = report.TotalRevenue.Add(o.Total)

		created := o.CreatedAt.In(now.Location()).Format(time.DateOnly)
		for i := range report.Daily {
			if report.Daily[i].Date == created {
				report.Daily[i].Total = report.Daily[i].Total.Add(o.Total)
				break
			}
		}

		for _, it := range o.Items {
			ps, ok := byProduct[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
				byProduct[it.ProductID] = ps
			}
			ps.Quantity += it.Quantity
			ps.Revenue = ps.Revenue.Add(it.LineTotal())
		}
	}

	report.TopProducts = make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		report.TopProducts = append(report.TopProducts, *ps)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ProductID.String() < b.ProductID.String()
	})
	report.TopProducts = report.TopProducts[:min(len(report.TopProducts), topProductsLimit)]
	return report
}

func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

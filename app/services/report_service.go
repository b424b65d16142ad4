package services

import (
	"time"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/pkg/collection"
)

// LowStockThreshold marks products that need restocking.
const LowStockThreshold = 10

// Summary is the dashboard headline block.
type Summary struct {
	TotalRevenue     int64                `json:"total_revenue"`
	TransactionCount int64                `json:"transaction_count"`
	ProductCount     int64                `json:"product_count"`
	ActiveCashiers   int64                `json:"active_cashiers"`
	RevenueGrowth    float64              `json:"revenue_growth"` // percent vs previous month
	LowStockCount    int                  `json:"low_stock_count"`
	TopProducts      []ProductValue       `json:"top_products"`
	RecentSales      []models.Transaction `json:"recent_sales"`
}

// ProductValue ranks a product by the value of stock on hand.
type ProductValue struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	Stock          int    `json:"stock"`
	InventoryValue int64  `json:"inventory_value"`
}

// MonthlyRevenue is one month's sales for the trend chart.
type MonthlyRevenue struct {
	Month   string `json:"month"` // "2026-08"
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

// CategoryBreakdown summarizes one category's share of the catalog.
type CategoryBreakdown struct {
	Category       string `json:"category"`
	ProductCount   int    `json:"product_count"`
	StockUnits     int    `json:"stock_units"`
	InventoryValue int64  `json:"inventory_value"`
}

// ReportService aggregates the numbers behind the dashboard and the report
// endpoints.
type ReportService struct {
	products     *repositories.ProductRepository
	transactions *repositories.TransactionRepository
	users        *repositories.UserRepository
}

func NewReportService(
	products *repositories.ProductRepository,
	transactions *repositories.TransactionRepository,
	users *repositories.UserRepository,
) *ReportService {
	return &ReportService{products: products, transactions: transactions, users: users}
}

// now is swapped in tests to pin month boundaries.
var now = time.Now

// Summary builds the dashboard headline block.
func (s *ReportService) Summary() (*Summary, error) {
	revenue, err := s.transactions.TotalRevenue()
	if err != nil {
		return nil, err
	}
	txCount, err := s.transactions.Count()
	if err != nil {
		return nil, err
	}
	productCount, err := s.products.Count()
	if err != nil {
		return nil, err
	}
	cashiers, err := s.users.CountActive()
	if err != nil {
		return nil, err
	}
	growth, err := s.revenueGrowth()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.LowStock(LowStockThreshold)
	if err != nil {
		return nil, err
	}
	top, err := s.TopProducts(3)
	if err != nil {
		return nil, err
	}
	recent, err := s.transactions.Recent(5)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalRevenue:     revenue,
		TransactionCount: txCount,
		ProductCount:     productCount,
		ActiveCashiers:   cashiers,
		RevenueGrowth:    growth,
		LowStockCount:    len(lowStock),
		TopProducts:      top,
		RecentSales:      recent,
	}, nil
}

// revenueGrowth compares the current month's revenue against the previous
// month's, as a percentage. A previous month of zero yields 100 when this
// month has sales and 0 otherwise.
func (s *ReportService) revenueGrowth() (float64, error) {
	t := now()
	monthStart := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	current, err := s.transactions.RevenueBetween(monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return 0, err
	}
	previous, err := s.transactions.RevenueBetween(prevStart, monthStart)
	if err != nil {
		return 0, err
	}

	if previous == 0 {
		if current > 0 {
			return 100, nil
		}
		return 0, nil
	}
	return float64(current-previous) / float64(previous) * 100, nil
}

// TopProducts ranks products by price times stock on hand.
func (s *ReportService) TopProducts(n int) ([]ProductValue, error) {
	products, err := s.products.All()
	if err != nil {
		return nil, err
	}

	values := collection.Map(products, func(p models.Product) ProductValue {
		return ProductValue{
			ID:             p.ID,
			Name:           p.Name,
			Price:          p.Price,
			Stock:          p.Stock,
			InventoryValue: p.Price * int64(p.Stock),
		}
	})
	collection.SortBy(values, func(a, b ProductValue) bool {
		return a.InventoryValue > b.InventoryValue
	})
	return collection.Take(values, n), nil
}

// Monthly returns revenue per month for the past 12 months, oldest first.
func (s *ReportService) Monthly() ([]MonthlyRevenue, error) {
	t := now()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -11, 0)

	txs, err := s.transactions.Since(start)
	if err != nil {
		return nil, err
	}

	grouped := collection.GroupBy(txs, func(tx models.Transaction) string {
		return tx.CreatedAt.Format("2006-01")
	})

	out := make([]MonthlyRevenue, 0, 12)
	for i := 0; i < 12; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		sales := grouped[month]
		out = append(out, MonthlyRevenue{
			Month:   month,
			Revenue: collection.SumInt64(sales, func(tx models.Transaction) int64 { return tx.Total }),
			Count:   len(sales),
		})
	}
	return out, nil
}

// Products returns the full inventory-value listing, most valuable first.
func (s *ReportService) Products() ([]ProductValue, error) {
	n, err := s.products.Count()
	if err != nil {
		return nil, err
	}
	return s.TopProducts(int(n))
}

// Categories summarizes the catalog per category.
func (s *ReportService) Categories() ([]CategoryBreakdown, error) {
	products, err := s.products.All()
	if err != nil {
		return nil, err
	}

	grouped := collection.GroupBy(products, func(p models.Product) string {
		return p.Category.Name
	})

	out := make([]CategoryBreakdown, 0, len(grouped))
	for name, group := range grouped {
		units := 0
		for _, p := range group {
			units += p.Stock
		}
		out = append(out, CategoryBreakdown{
			Category:     name,
			ProductCount: len(group),
			StockUnits:   units,
			InventoryValue: collection.SumInt64(group, func(p models.Product) int64 {
				return p.Price * int64(p.Stock)
			}),
		})
	}
	collection.SortBy(out, func(a, b CategoryBreakdown) bool {
		return a.InventoryValue > b.InventoryValue
	})
	return out, nil
}

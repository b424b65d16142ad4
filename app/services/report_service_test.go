package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/pkg/testkit"
)

func newReportFixture(t *testing.T) *services.ReportService {
	t.Helper()
	db := testkit.NewDB(t)

	role := testkit.SeedRole(t, db, "Cashier", "transaction.create")
	user := testkit.SeedUser(t, db, "Budi", "budi@simplepos.local", "budi", "secret123", role)

	drinks := testkit.SeedCategory(t, db, "Drinks")
	snacks := testkit.SeedCategory(t, db, "Snacks")
	testkit.SeedProduct(t, db, "Espresso", 25000, 100, drinks)    // value 2_500_000
	testkit.SeedProduct(t, db, "Iced Tea", 15000, 5, drinks)      // low stock, value 75_000
	testkit.SeedProduct(t, db, "Croissant", 15000, 40, snacks)    // value 600_000
	testkit.SeedProduct(t, db, "French Fries", 20000, 80, snacks) // value 1_600_000

	txSvc := services.NewTransactionService(repositories.NewTransactionRepository())
	for _, total := range []int64{105450, 55500} {
		_, err := txSvc.Create(total, user.ID)
		require.NoError(t, err)
	}

	return services.NewReportService(
		repositories.NewProductRepository(),
		repositories.NewTransactionRepository(),
		repositories.NewUserRepository(),
	)
}

func TestSummaryReport(t *testing.T) {
	svc := newReportFixture(t)

	summary, err := svc.Summary()
	require.NoError(t, err)

	assert.Equal(t, int64(160950), summary.TotalRevenue)
	assert.Equal(t, int64(2), summary.TransactionCount)
	assert.Equal(t, int64(4), summary.ProductCount)
	assert.Equal(t, int64(1), summary.ActiveCashiers)
	assert.Equal(t, 1, summary.LowStockCount)

	// All sales are in the current month and none before it.
	assert.Equal(t, float64(100), summary.RevenueGrowth)

	require.Len(t, summary.TopProducts, 3)
	assert.Equal(t, "Espresso", summary.TopProducts[0].Name)
	assert.Equal(t, int64(2500000), summary.TopProducts[0].InventoryValue)
	assert.Equal(t, "French Fries", summary.TopProducts[1].Name)

	require.Len(t, summary.RecentSales, 2)
}

func TestMonthlyReport(t *testing.T) {
	svc := newReportFixture(t)

	months, err := svc.Monthly()
	require.NoError(t, err)
	require.Len(t, months, 12)

	current := time.Now().Format("2006-01")
	last := months[len(months)-1]
	assert.Equal(t, current, last.Month)
	assert.Equal(t, int64(160950), last.Revenue)
	assert.Equal(t, 2, last.Count)

	for _, m := range months[:len(months)-1] {
		assert.Zero(t, m.Revenue, "month %s should be empty", m.Month)
	}
}

func TestProductsReport(t *testing.T) {
	svc := newReportFixture(t)

	products, err := svc.Products()
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, "Espresso", products[0].Name)
	assert.Equal(t, "Iced Tea", products[3].Name)
}

func TestCategoriesReport(t *testing.T) {
	svc := newReportFixture(t)

	categories, err := svc.Categories()
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, "Drinks", categories[0].Category)
	assert.Equal(t, int64(2575000), categories[0].InventoryValue)
	assert.Equal(t, 2, categories[0].ProductCount)
	assert.Equal(t, 105, categories[0].StockUnits)

	assert.Equal(t, "Snacks", categories[1].Category)
	assert.Equal(t, int64(2200000), categories[1].InventoryValue)
}

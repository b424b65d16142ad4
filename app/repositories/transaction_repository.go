package repositories

import (
	"time"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/orm"
)

// TransactionRepository handles the immutable sales ledger. Rows are only
// ever created, never updated or deleted.
type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Create appends a sale to the ledger.
func (r *TransactionRepository) Create(tx *models.Transaction) error {
	return orm.DB().Create(tx)
}

// All returns transactions with their cashiers, newest first, paginated.
func (r *TransactionRepository) All(page, limit int) ([]models.Transaction, orm.Pagination, error) {
	var txs []models.Transaction
	pagination, err := orm.DB().Model(&models.Transaction{}).
		Preload("User").
		Order("created_at desc").
		GetWithPagination(&txs, page, limit)
	return txs, pagination, err
}

// Recent returns the n most recent transactions with their cashiers.
func (r *TransactionRepository) Recent(n int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := orm.DB().Model(&models.Transaction{}).
		Preload("User").
		Order("created_at desc").
		Limit(n).
		Get(&txs)
	return txs, err
}

// Since returns all transactions created at or after the given time.
func (r *TransactionRepository) Since(from time.Time) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := orm.DB().Model(&models.Transaction{}).
		Where("created_at >= ?", from).
		Order("created_at asc").
		Get(&txs)
	return txs, err
}

// Count returns the total number of transactions.
func (r *TransactionRepository) Count() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Transaction{}).Count(&n)
	return n, err
}

// TotalRevenue sums every transaction total.
func (r *TransactionRepository) TotalRevenue() (int64, error) {
	var sum *int64
	err := orm.DB().Model(&models.Transaction{}).Gorm().
		Select("SUM(total)").
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

// RevenueBetween sums transaction totals inside [from, to).
func (r *TransactionRepository) RevenueBetween(from, to time.Time) (int64, error) {
	var sum *int64
	err := orm.DB().Model(&models.Transaction{}).Gorm().
		Select("SUM(total)").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

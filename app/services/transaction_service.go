package services

import (
	"context"
	"errors"
	"time"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/pkg/checkout"
	"github.com/Blawness/SimplePOS/pkg/event"
	"github.com/Blawness/SimplePOS/pkg/metrics"
	"github.com/Blawness/SimplePOS/pkg/orm"
)

// ErrInvalidTotal rejects non-positive sale totals.
var ErrInvalidTotal = errors.New("transaction total must be positive")

// SaleEvent is the payload fired on event.TransactionCreated and pushed to
// the live sales feed.
type SaleEvent struct {
	ID        uint      `json:"id"`
	Total     int64     `json:"total"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionService appends sales to the ledger and fans out the side
// effects. It is the checkout flow's TransactionRecorder.
type TransactionService struct {
	transactions *repositories.TransactionRepository
}

func NewTransactionService(transactions *repositories.TransactionRepository) *TransactionService {
	return &TransactionService{transactions: transactions}
}

// Create records a sale for the given cashier.
func (s *TransactionService) Create(total int64, userID uint) (*models.Transaction, error) {
	if total <= 0 {
		return nil, ErrInvalidTotal
	}

	tx := &models.Transaction{Total: total, UserID: userID}
	if err := s.transactions.Create(tx); err != nil {
		metrics.CheckoutFailures.Inc()
		return nil, err
	}

	metrics.TransactionsTotal.Inc()
	metrics.SalesAmountTotal.Add(float64(total))
	event.FireAsync(event.TransactionCreated, SaleEvent{
		ID:        tx.ID,
		Total:     tx.Total,
		UserID:    tx.UserID,
		CreatedAt: tx.CreatedAt,
	})

	return tx, nil
}

// Record satisfies checkout.TransactionRecorder.
func (s *TransactionService) Record(_ context.Context, snap *checkout.Snapshot, userID uint) (*models.Transaction, error) {
	return s.Create(snap.Total, userID)
}

// List returns the ledger newest first, paginated.
func (s *TransactionService) List(page, limit int) ([]models.Transaction, orm.Pagination, error) {
	return s.transactions.All(page, limit)
}

// Package checkout drives the payment confirmation flow for one session's
// cart. The flow is a small state machine:
//
//	IDLE -> AWAITING_CONFIRMATION -> PROCESSING -> SUCCESS
//	                |                    |            |
//	                v                    v            v
//	              IDLE (cancel)        FAILED      IDLE (dismiss, cart cleared)
//
// A failed checkout keeps its order snapshot so the receipt dialog can show
// what was attempted and the cashier can retry without rebuilding the cart.
package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/config"
	"github.com/Blawness/SimplePOS/pkg/cart"
)

// State names the checkout phases.
type State string

const (
	StateIdle                 State = "IDLE"
	StateAwaitingConfirmation State = "AWAITING_CONFIRMATION"
	StateProcessing           State = "PROCESSING"
	StateSuccess              State = "SUCCESS"
	StateFailed               State = "FAILED"
)

// PaymentMethod is one of the accepted tender types.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentQRIS  PaymentMethod = "qris"
	PaymentDebit PaymentMethod = "debit"
)

var (
	ErrEmptyCart         = errors.New("checkout: cart is empty")
	ErrOrderName         = errors.New("checkout: order name is required")
	ErrPaymentMethod     = errors.New("checkout: unknown payment method")
	ErrInvalidTransition = errors.New("checkout: operation not allowed in current state")
)

// ParsePaymentMethod normalizes user input to a PaymentMethod. The local
// term "tunai" is accepted as an alias for cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash", "tunai":
		return PaymentCash, nil
	case "qris":
		return PaymentQRIS, nil
	case "debit":
		return PaymentDebit, nil
	default:
		return "", ErrPaymentMethod
	}
}

// Snapshot freezes an order at the moment the confirmation dialog opens.
// Cart edits after Begin do not change the amounts being charged.
type Snapshot struct {
	OrderName string        `json:"order_name"`
	Payment   PaymentMethod `json:"payment"`
	Items     []cart.Item   `json:"items"`
	Subtotal  int64         `json:"subtotal"`
	Tax       int64         `json:"tax"`
	Total     int64         `json:"total"`
}

// TransactionRecorder persists a confirmed sale. Implemented by the
// transaction service; the state machine itself never touches storage.
type TransactionRecorder interface {
	Record(ctx context.Context, snap *Snapshot, userID uint) (*models.Transaction, error)
}

// Checkout is one session's checkout flow. The zero value is IDLE.
type Checkout struct {
	State    State     `json:"state"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Failure  string    `json:"failure,omitempty"`
}

// New returns an idle checkout.
func New() *Checkout {
	return &Checkout{State: StateIdle}
}

// current treats the JSON zero value as IDLE.
func (c *Checkout) current() State {
	if c.State == "" {
		return StateIdle
	}
	return c.State
}

// Tax computes the tax due on a subtotal using integer arithmetic, with the
// rate taken from configuration. 95000 at 11 percent yields exactly 10450.
func Tax(subtotal int64) int64 {
	return subtotal * config.TaxPercent() / 100
}

// Begin snapshots the cart and opens the confirmation dialog. Allowed from
// IDLE and from FAILED (retry). An empty cart, blank order name, or unknown
// payment method leaves the state unchanged.
func (c *Checkout) Begin(ct *cart.Cart, orderName string, method PaymentMethod) error {
	if s := c.current(); s != StateIdle && s != StateFailed {
		return ErrInvalidTransition
	}
	if ct == nil || ct.IsEmpty() {
		return ErrEmptyCart
	}
	if strings.TrimSpace(orderName) == "" {
		return ErrOrderName
	}
	switch method {
	case PaymentCash, PaymentQRIS, PaymentDebit:
	default:
		return ErrPaymentMethod
	}

	items := make([]cart.Item, len(ct.Items))
	copy(items, ct.Items)
	subtotal := ct.Subtotal()
	tax := Tax(subtotal)

	c.Snapshot = &Snapshot{
		OrderName: strings.TrimSpace(orderName),
		Payment:   method,
		Items:     items,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal + tax,
	}
	c.State = StateAwaitingConfirmation
	c.Failure = ""
	return nil
}

// Cancel closes the confirmation dialog without charging. The cart is
// untouched.
func (c *Checkout) Cancel() error {
	if c.current() != StateAwaitingConfirmation {
		return ErrInvalidTransition
	}
	c.State = StateIdle
	c.Snapshot = nil
	return nil
}

// Confirm records the sale. On recorder failure the snapshot is kept and
// the state becomes FAILED; the returned error is the recorder's.
func (c *Checkout) Confirm(ctx context.Context, rec TransactionRecorder, userID uint) (*models.Transaction, error) {
	if c.current() != StateAwaitingConfirmation {
		return nil, ErrInvalidTransition
	}
	c.State = StateProcessing

	tx, err := rec.Record(ctx, c.Snapshot, userID)
	if err != nil {
		c.State = StateFailed
		c.Failure = err.Error()
		return nil, err
	}

	c.State = StateSuccess
	c.Failure = ""
	return tx, nil
}

// Dismiss closes the receipt dialog. After a successful sale the cart is
// cleared for the next customer; after a failure the cart is preserved so
// the order can be retried.
func (c *Checkout) Dismiss(ct *cart.Cart) error {
	switch c.current() {
	case StateSuccess:
		if ct != nil {
			ct.Clear()
		}
	case StateFailed:
	default:
		return ErrInvalidTransition
	}
	c.State = StateIdle
	c.Snapshot = nil
	c.Failure = ""
	return nil
}

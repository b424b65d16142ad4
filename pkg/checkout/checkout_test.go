package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/cart"
)

type stubRecorder struct {
	err  error
	last *Snapshot
}

func (s *stubRecorder) Record(_ context.Context, snap *Snapshot, userID uint) (*models.Transaction, error) {
	s.last = snap
	if s.err != nil {
		return nil, s.err
	}
	return &models.Transaction{Total: snap.Total, UserID: userID}, nil
}

func sampleCart() *cart.Cart {
	c := cart.New()
	espresso := &models.Product{Name: "Espresso", Price: 25000}
	espresso.ID = 1
	tea := &models.Product{Name: "Green Tea", Price: 15000}
	tea.ID = 2

	c.Add(espresso)
	c.UpdateQuantity(1, 2)
	c.Add(tea)
	c.UpdateQuantity(2, 3)
	return c // subtotal 95000
}

func TestParsePaymentMethod(t *testing.T) {
	for in, want := range map[string]PaymentMethod{
		"cash":  PaymentCash,
		"Tunai": PaymentCash,
		"QRIS":  PaymentQRIS,
		"debit": PaymentDebit,
	} {
		got, err := ParsePaymentMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePaymentMethod("credit")
	assert.ErrorIs(t, err, ErrPaymentMethod)
}

func TestBeginSnapshotsAmounts(t *testing.T) {
	co := New()
	c := sampleCart()

	require.NoError(t, co.Begin(c, "Table 4", PaymentCash))
	assert.Equal(t, StateAwaitingConfirmation, co.State)

	snap := co.Snapshot
	require.NotNil(t, snap)
	assert.Equal(t, int64(95000), snap.Subtotal)
	assert.Equal(t, int64(10450), snap.Tax)
	assert.Equal(t, int64(105450), snap.Total)
	assert.Equal(t, "Table 4", snap.OrderName)
	assert.Len(t, snap.Items, 2)

	// Cart edits after Begin do not alter the snapshot.
	c.UpdateQuantity(1, 10)
	assert.Equal(t, int64(95000), co.Snapshot.Subtotal)
}

func TestBeginEmptyCartStaysIdle(t *testing.T) {
	co := New()
	err := co.Begin(cart.New(), "Table 1", PaymentCash)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateIdle, co.State)
	assert.Nil(t, co.Snapshot)
}

func TestBeginValidation(t *testing.T) {
	co := New()
	assert.ErrorIs(t, co.Begin(sampleCart(), "   ", PaymentCash), ErrOrderName)
	assert.ErrorIs(t, co.Begin(sampleCart(), "Table 1", PaymentMethod("crypto")), ErrPaymentMethod)
	assert.Equal(t, StateIdle, co.State)
}

func TestConfirmSuccess(t *testing.T) {
	co := New()
	require.NoError(t, co.Begin(sampleCart(), "Table 4", PaymentQRIS))

	rec := &stubRecorder{}
	tx, err := co.Confirm(context.Background(), rec, 7)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, co.State)
	assert.Equal(t, int64(105450), tx.Total)
	assert.Equal(t, uint(7), tx.UserID)
	assert.Equal(t, PaymentQRIS, rec.last.Payment)
}

func TestConfirmFailurePreservesSnapshot(t *testing.T) {
	co := New()
	c := sampleCart()
	require.NoError(t, co.Begin(c, "Table 4", PaymentCash))

	rec := &stubRecorder{err: errors.New("db down")}
	_, err := co.Confirm(context.Background(), rec, 7)
	require.Error(t, err)

	assert.Equal(t, StateFailed, co.State)
	require.NotNil(t, co.Snapshot)
	assert.Equal(t, int64(105450), co.Snapshot.Total)
	assert.Equal(t, "db down", co.Failure)
	assert.False(t, c.IsEmpty())
}

func TestRetryAfterFailure(t *testing.T) {
	co := New()
	c := sampleCart()
	require.NoError(t, co.Begin(c, "Table 4", PaymentCash))
	_, err := co.Confirm(context.Background(), &stubRecorder{err: errors.New("db down")}, 7)
	require.Error(t, err)

	// Begin is allowed again straight from FAILED.
	require.NoError(t, co.Begin(c, "Table 4", PaymentCash))
	_, err = co.Confirm(context.Background(), &stubRecorder{}, 7)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, co.State)
}

func TestDismissAfterSuccessClearsCart(t *testing.T) {
	co := New()
	c := sampleCart()
	require.NoError(t, co.Begin(c, "Table 4", PaymentCash))
	_, err := co.Confirm(context.Background(), &stubRecorder{}, 7)
	require.NoError(t, err)

	require.NoError(t, co.Dismiss(c))
	assert.Equal(t, StateIdle, co.State)
	assert.Nil(t, co.Snapshot)
	assert.True(t, c.IsEmpty())
}

func TestDismissAfterFailureKeepsCart(t *testing.T) {
	co := New()
	c := sampleCart()
	require.NoError(t, co.Begin(c, "Table 4", PaymentCash))
	_, err := co.Confirm(context.Background(), &stubRecorder{err: errors.New("db down")}, 7)
	require.Error(t, err)

	require.NoError(t, co.Dismiss(c))
	assert.Equal(t, StateIdle, co.State)
	assert.False(t, c.IsEmpty())
}

func TestCancel(t *testing.T) {
	co := New()
	c := sampleCart()
	require.NoError(t, co.Begin(c, "Table 4", PaymentCash))
	require.NoError(t, co.Cancel())

	assert.Equal(t, StateIdle, co.State)
	assert.Nil(t, co.Snapshot)
	assert.False(t, c.IsEmpty())
}

func TestInvalidTransitions(t *testing.T) {
	co := New()
	assert.ErrorIs(t, co.Cancel(), ErrInvalidTransition)
	_, err := co.Confirm(context.Background(), &stubRecorder{}, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, co.Dismiss(cart.New()), ErrInvalidTransition)
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore()
	co := New()
	require.NoError(t, co.Begin(sampleCart(), "Table 4", PaymentCash))
	require.NoError(t, s.Save("sess", co))

	got := s.Load("sess")
	assert.Equal(t, StateAwaitingConfirmation, got.State)
	require.NotNil(t, got.Snapshot)
	assert.Equal(t, int64(105450), got.Snapshot.Total)

	assert.Equal(t, StateIdle, s.Load("other").current())
	require.NoError(t, s.Drop("sess"))
	assert.Equal(t, StateIdle, s.Load("sess").current())
}

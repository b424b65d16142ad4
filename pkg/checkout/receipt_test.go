package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Blawness/SimplePOS/pkg/cart"
)

func TestReceiptRendering(t *testing.T) {
	snap := &Snapshot{
		OrderName: "Table 4",
		Payment:   PaymentQRIS,
		Items: []cart.Item{
			{ProductID: 1, Name: "Espresso", Price: 25000, Quantity: 2},
			{ProductID: 2, Name: "Croissant", Price: 15000, Quantity: 3},
		},
		Subtotal: 95000,
		Tax:      10450,
		Total:    105450,
	}

	at := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	out := snap.Receipt("Budi", at)

	assert.Contains(t, out, "Order   : Table 4")
	assert.Contains(t, out, "Cashier : Budi")
	assert.Contains(t, out, "Date    : 2026-08-29 14:30")
	assert.Contains(t, out, "Payment : QRIS")
	assert.Contains(t, out, "Espresso")
	assert.Contains(t, out, "2 x Rp 25.000")
	assert.Contains(t, out, "Rp 50.000")
	assert.Contains(t, out, "Rp 95.000")
	assert.Contains(t, out, "Rp 10.450")
	assert.Contains(t, out, "Rp 105.450")
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "Rp 0", money(0))
	assert.Equal(t, "Rp 950", money(950))
	assert.Equal(t, "Rp 95.000", money(95000))
	assert.Equal(t, "Rp 1.250.000", money(1250000))
}

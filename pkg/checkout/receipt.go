package checkout

import (
	"fmt"
	"strings"
	"time"
)

const receiptWidth = 40

// Receipt renders the snapshot as a printable text receipt. The caller
// supplies the cashier name and the sale timestamp.
func (s *Snapshot) Receipt(cashier string, at time.Time) string {
	var b strings.Builder
	line := strings.Repeat("=", receiptWidth)
	thin := strings.Repeat("-", receiptWidth)

	b.WriteString(center("SimplePOS") + "\n")
	b.WriteString(line + "\n")
	b.WriteString(fmt.Sprintf("Order   : %s\n", s.OrderName))
	b.WriteString(fmt.Sprintf("Cashier : %s\n", cashier))
	b.WriteString(fmt.Sprintf("Date    : %s\n", at.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Payment : %s\n", strings.ToUpper(string(s.Payment))))
	b.WriteString(thin + "\n")

	for _, item := range s.Items {
		b.WriteString(item.Name + "\n")
		qty := fmt.Sprintf("  %d x %s", item.Quantity, money(item.Price))
		b.WriteString(pad(qty, money(item.Price*int64(item.Quantity))) + "\n")
	}

	b.WriteString(thin + "\n")
	b.WriteString(pad("Subtotal", money(s.Subtotal)) + "\n")
	b.WriteString(pad("Tax", money(s.Tax)) + "\n")
	b.WriteString(pad("TOTAL", money(s.Total)) + "\n")
	b.WriteString(line + "\n")
	b.WriteString(center("Thank you!") + "\n")
	return b.String()
}

// money formats an amount with dot thousand separators, e.g. 105450 as
// "Rp 105.450".
func money(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	out := "Rp " + strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}

// pad right-aligns value against label across the receipt width.
func pad(label, value string) string {
	gap := receiptWidth - len(label) - len(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}

func center(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	left := (receiptWidth - len(s)) / 2
	return strings.Repeat(" ", left) + s
}

package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundResult is returned by cancellation; the actual money movement belongs
// to the payment collaborator.
type RefundResult struct {
	RefundAmount     decimal.Decimal
	CancellationFee  decimal.Decimal
	RefundPercentage int
	HoursToStart     float64
}

// CancellationPolicy determines refunds. Cancelling inside the window costs
// the plan's late-cancellation fee and caps the refund at 50%.
type CancellationPolicy struct {
	windowHours float64
}

func NewCancellationPolicy(windowHours float64) CancellationPolicy {
	return CancellationPolicy{windowHours: windowHours}
}

func (p CancellationPolicy) Assess(paidAmount, lateFee decimal.Decimal, start, now time.Time) RefundResult {
	hoursToStart := start.Sub(now).Hours()

	fee := decimal.Zero
	percentage := 100
	if hoursToStart < p.windowHours {
		fee = lateFee
		percentage = 50
	}

	refund := decimal.Zero
	if paidAmount.IsPositive() {
		beforeFee := paidAmount.Mul(decimal.NewFromInt(int64(percentage))).Div(decimal.NewFromInt(100))
		refund = beforeFee.Sub(fee)
		if refund.IsNegative() {
			refund = decimal.Zero
		}
	}

	return RefundResult{
		RefundAmount:     refund.Round(2),
		CancellationFee:  fee.Round(2),
		RefundPercentage: percentage,
		HoursToStart:     hoursToStart,
	}
}

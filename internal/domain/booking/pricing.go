package booking

import (
	"errors"
	"time"

	"voltspot/internal/domain/charger"

	"github.com/shopspring/decimal"
)

var (
	ErrSessionTooShort = errors.New("session shorter than plan minimum")
	ErrSessionTooLong  = errors.New("session longer than plan maximum")
)

// Assumed charging efficiency when estimating delivered energy from the
// charger's rated power.
var chargingEfficiency = decimal.NewFromFloat(0.8)

// CostBreakdown is the denormalized price of a window, recorded on the booking
// at admission and never recomputed when the plan later changes. All monetary
// fields are rounded to 2 decimal places at construction.
type CostBreakdown struct {
	DurationMinutes int
	EstimatedKwh    decimal.Decimal
	Mode            charger.PricingMode
	UnitPrice       decimal.Decimal
	Multiplier      decimal.Decimal
	Subtotal        decimal.Decimal
	BookingFee      decimal.Decimal
	PlatformFee     decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
}

// PriceCalculator computes cost breakdowns. Pure: no I/O, deterministic for
// identical inputs (weekday and peak hour derive from the window start, which
// is an input).
type PriceCalculator struct {
	commissionRate decimal.Decimal
	taxRate        decimal.Decimal
}

func NewPriceCalculator(commissionRate, taxRate float64) *PriceCalculator {
	return &PriceCalculator{
		commissionRate: decimal.NewFromFloat(commissionRate),
		taxRate:        decimal.NewFromFloat(taxRate),
	}
}

// Quote prices the window against the charger's plan.
// Rounding happens once, on the output fields, not during accumulation.
func (c *PriceCalculator) Quote(spec charger.Spec, plan charger.PricingPlan, w TimeWindow) (CostBreakdown, error) {
	minutes := w.Minutes()
	if minutes < plan.MinSessionMinutes {
		return CostBreakdown{}, ErrSessionTooShort
	}
	if minutes > plan.MaxSessionMinutes {
		return CostBreakdown{}, ErrSessionTooLong
	}

	hours := decimal.NewFromFloat(w.Duration().Hours())
	estimatedKwh := hours.Mul(decimal.NewFromFloat(spec.MaxPowerKw)).Mul(chargingEfficiency)

	var base decimal.Decimal
	switch plan.Mode {
	case charger.ModePerHour:
		base = hours.Mul(plan.UnitPrice)
	case charger.ModePerKwh:
		base = estimatedKwh.Mul(plan.UnitPrice)
	default: // flat rate
		base = plan.UnitPrice
	}

	multiplier := multiplierFor(plan, w.Start())
	subtotal := base.Mul(multiplier)

	platformFee := subtotal.Mul(c.commissionRate)
	tax := platformFee.Mul(c.taxRate)
	total := subtotal.Add(plan.BookingFee).Add(platformFee).Add(tax)

	return CostBreakdown{
		DurationMinutes: minutes,
		EstimatedKwh:    estimatedKwh.Round(2),
		Mode:            plan.Mode,
		UnitPrice:       plan.UnitPrice,
		Multiplier:      multiplier,
		Subtotal:        subtotal.Round(2),
		BookingFee:      plan.BookingFee.Round(2),
		PlatformFee:     platformFee.Round(2),
		Tax:             tax.Round(2),
		Total:           total.Round(2),
	}, nil
}

// Peak then weekend; the multipliers compose multiplicatively.
func multiplierFor(plan charger.PricingPlan, start time.Time) decimal.Decimal {
	multiplier := decimal.NewFromInt(1)

	if plan.HasPeakWindow() {
		h := start.Hour()
		if h >= *plan.PeakStartHour && h <= *plan.PeakEndHour {
			multiplier = multiplier.Mul(plan.PeakMultiplier)
		}
	}

	switch start.Weekday() {
	case time.Saturday, time.Sunday:
		multiplier = multiplier.Mul(plan.WeekendMultiplier)
	}

	return multiplier
}

package charger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PricingMode string

const (
	ModePerHour  PricingMode = "per_hour"
	ModePerKwh   PricingMode = "per_kwh"
	ModeFlatRate PricingMode = "flat_rate"
)

func (m PricingMode) String() string {
	return string(m)
}

func (m PricingMode) IsValid() bool {
	switch m {
	case ModePerHour, ModePerKwh, ModeFlatRate:
		return true
	default:
		return false
	}
}

// Spec is the booking subsystem's read view of a charger. The listings
// subsystem owns the row; admission only reads it (under a row lock).
type Spec struct {
	ID         uuid.UUID
	HostID     uuid.UUID
	Title      string
	MaxPowerKw float64
	AutoAccept bool
	Active     bool
}

// PricingPlan is the charger's active pricing rule set. A charger has at most
// one plan; the plan is never mutated by the booking flow.
type PricingPlan struct {
	Mode                PricingMode
	UnitPrice           decimal.Decimal
	MinSessionMinutes   int
	MaxSessionMinutes   int
	PeakStartHour       *int
	PeakEndHour         *int
	PeakMultiplier      decimal.Decimal
	WeekendMultiplier   decimal.Decimal
	BookingFee          decimal.Decimal
	OverstayFeePerHour  decimal.Decimal
	LateCancellationFee decimal.Decimal
	AdvanceBookingHours int
}

// HasPeakWindow reports whether a peak-hour surcharge is configured.
func (p PricingPlan) HasPeakWindow() bool {
	return p.PeakStartHour != nil && p.PeakEndHour != nil
}

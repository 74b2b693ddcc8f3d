//go:build unit

package booking_test

import (
	"testing"
	"time"

	"voltspot/internal/domain/booking"
	"voltspot/internal/domain/charger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() charger.Spec {
	return charger.Spec{
		ID:         uuid.New(),
		HostID:     uuid.New(),
		Title:      "Home Level 2",
		MaxPowerKw: 7.4,
		Active:     true,
	}
}

func perHourPlan() charger.PricingPlan {
	return charger.PricingPlan{
		Mode:                charger.ModePerHour,
		UnitPrice:           decimal.NewFromInt(100),
		MinSessionMinutes:   30,
		MaxSessionMinutes:   480,
		PeakMultiplier:      decimal.NewFromInt(1),
		WeekendMultiplier:   decimal.NewFromInt(1),
		BookingFee:          decimal.Zero,
		LateCancellationFee: decimal.NewFromInt(100),
	}
}

// 2025-06-02 is a Monday.
func weekdayWindow(t *testing.T, d time.Duration) booking.TimeWindow {
	t.Helper()
	start := at(t, "2025-06-02T10:00:00Z")
	return mustWindow(t, start, start.Add(d))
}

func TestPriceCalculator_Quote(t *testing.T) {
	calc := booking.NewPriceCalculator(0.15, 0.18)

	t.Run("per-hour plan, 2 hours, commission and tax", func(t *testing.T) {
		got, err := calc.Quote(testSpec(), perHourPlan(), weekdayWindow(t, 2*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, "200", got.Subtotal.String())
		assert.Equal(t, "30", got.PlatformFee.String())
		assert.Equal(t, "5.4", got.Tax.String())
		assert.Equal(t, "235.4", got.Total.String())
		assert.Equal(t, 120, got.DurationMinutes)
	})

	t.Run("per-kwh plan estimates energy at 80% efficiency", func(t *testing.T) {
		plan := perHourPlan()
		plan.Mode = charger.ModePerKwh
		plan.UnitPrice = decimal.NewFromInt(10)

		got, err := calc.Quote(testSpec(), plan, weekdayWindow(t, 2*time.Hour))
		require.NoError(t, err)

		// 2h * 7.4kW * 0.8 = 11.84 kWh; subtotal = 118.4
		assert.Equal(t, "11.84", got.EstimatedKwh.String())
		assert.Equal(t, "118.4", got.Subtotal.String())
	})

	t.Run("flat rate ignores duration", func(t *testing.T) {
		plan := perHourPlan()
		plan.Mode = charger.ModeFlatRate
		plan.UnitPrice = decimal.NewFromInt(500)

		short, err := calc.Quote(testSpec(), plan, weekdayWindow(t, time.Hour))
		require.NoError(t, err)
		long, err := calc.Quote(testSpec(), plan, weekdayWindow(t, 4*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, "500", short.Subtotal.String())
		assert.Equal(t, "500", long.Subtotal.String())
	})

	t.Run("peak multiplier applies when start hour is inside the window", func(t *testing.T) {
		plan := perHourPlan()
		peakStart, peakEnd := 9, 18
		plan.PeakStartHour = &peakStart
		plan.PeakEndHour = &peakEnd
		plan.PeakMultiplier = decimal.NewFromFloat(1.5)

		got, err := calc.Quote(testSpec(), plan, weekdayWindow(t, 2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "300", got.Subtotal.String())
	})

	t.Run("peak multiplier skipped when start hour is outside the window", func(t *testing.T) {
		plan := perHourPlan()
		peakStart, peakEnd := 17, 21
		plan.PeakStartHour = &peakStart
		plan.PeakEndHour = &peakEnd
		plan.PeakMultiplier = decimal.NewFromFloat(1.5)

		got, err := calc.Quote(testSpec(), plan, weekdayWindow(t, 2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "200", got.Subtotal.String())
	})

	t.Run("peak and weekend multipliers compose", func(t *testing.T) {
		plan := perHourPlan()
		peakStart, peakEnd := 9, 18
		plan.PeakStartHour = &peakStart
		plan.PeakEndHour = &peakEnd
		plan.PeakMultiplier = decimal.NewFromFloat(1.5)
		plan.WeekendMultiplier = decimal.NewFromFloat(1.2)

		// 2025-06-07 is a Saturday.
		start := at(t, "2025-06-07T10:00:00Z")
		got, err := calc.Quote(testSpec(), plan, mustWindow(t, start, start.Add(2*time.Hour)))
		require.NoError(t, err)

		// 200 * 1.5 * 1.2 = 360
		assert.Equal(t, "360", got.Subtotal.String())
	})

	t.Run("session shorter than plan minimum NG", func(t *testing.T) {
		_, err := calc.Quote(testSpec(), perHourPlan(), weekdayWindow(t, 20*time.Minute))
		assert.ErrorIs(t, err, booking.ErrSessionTooShort)
	})

	t.Run("session longer than plan maximum NG", func(t *testing.T) {
		_, err := calc.Quote(testSpec(), perHourPlan(), weekdayWindow(t, 9*time.Hour))
		assert.ErrorIs(t, err, booking.ErrSessionTooLong)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		spec := testSpec()
		plan := perHourPlan()
		w := weekdayWindow(t, 3*time.Hour)

		first, err := calc.Quote(spec, plan, w)
		require.NoError(t, err)
		second, err := calc.Quote(spec, plan, w)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

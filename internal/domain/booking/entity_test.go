//go:build unit

package booking_test

import (
	"regexp"
	"testing"
	"time"

	"voltspot/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(t *testing.T) *booking.Booking {
	t.Helper()
	w := weekdayWindow(t, 2*time.Hour)
	cost := booking.CostBreakdown{
		Subtotal:    decimal.NewFromInt(200),
		PlatformFee: decimal.NewFromInt(30),
		Tax:         decimal.NewFromFloat(5.4),
		Total:       decimal.NewFromFloat(235.4),
	}
	return booking.NewBooking(uuid.New(), uuid.New(), w, "BKAAAAAA", cost, nil, "")
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking(t)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, booking.StatusPending, b.Status())
	assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
	assert.Equal(t, "235.4", b.Total().String())
	assert.True(t, b.PaidAmount().IsZero())
	assert.Nil(t, b.RefundAmount())
}

func TestBooking_Confirm(t *testing.T) {
	now := time.Now()

	t.Run("pending to confirmed OK", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(now))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		require.NotNil(t, b.ConfirmedAt())
		assert.Equal(t, now, *b.ConfirmedAt())
	})

	t.Run("double confirm NG", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(now))
		assert.ErrorIs(t, b.Confirm(now), booking.ErrInvalidTransition)
	})
}

func TestBooking_CheckIn(t *testing.T) {
	now := time.Now()

	t.Run("confirmed to active OK", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.CheckIn(now))
		assert.Equal(t, booking.StatusActive, b.Status())
		assert.NotNil(t, b.CheckedInAt())
	})

	t.Run("pending cannot check in", func(t *testing.T) {
		b := newTestBooking(t)
		assert.ErrorIs(t, b.CheckIn(now), booking.ErrInvalidTransition)
	})
}

func TestBooking_Extend(t *testing.T) {
	now := time.Now()
	additional := booking.CostBreakdown{Total: decimal.NewFromFloat(117.7)}

	t.Run("confirmed booking extends and accrues cost", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(now))

		newEnd := b.Window().End().Add(time.Hour)
		require.NoError(t, b.Extend(newEnd, additional))

		assert.Equal(t, newEnd, b.Window().End())
		assert.Equal(t, "353.1", b.Total().String())
		assert.Equal(t, 1, b.ExtendedTimes())
	})

	t.Run("pending cannot extend", func(t *testing.T) {
		b := newTestBooking(t)
		newEnd := b.Window().End().Add(time.Hour)
		assert.ErrorIs(t, b.Extend(newEnd, additional), booking.ErrInvalidTransition)
	})

	t.Run("new end not after current end NG", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(now))
		assert.ErrorIs(t, b.Extend(b.Window().End(), additional), booking.ErrInvalidExtension)
	})
}

func TestBooking_Cancel(t *testing.T) {
	now := time.Now()
	refund := booking.RefundResult{
		RefundAmount:     decimal.NewFromFloat(17.7),
		CancellationFee:  decimal.NewFromInt(100),
		RefundPercentage: 50,
	}

	t.Run("pending booking cancels with refund recorded", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Cancel(now, "change of plans", booking.CancelledByRenter, refund))

		assert.Equal(t, booking.StatusCancelled, b.Status())
		require.NotNil(t, b.RefundAmount())
		assert.Equal(t, "17.7", b.RefundAmount().String())
		assert.Equal(t, booking.CancelledByRenter, b.CancelledBy())
		assert.Equal(t, "change of plans", b.CancellationReason())
	})

	t.Run("double cancel NG", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Cancel(now, "", booking.CancelledByRenter, refund))
		assert.ErrorIs(t, b.Cancel(now, "", booking.CancelledByRenter, refund), booking.ErrInvalidTransition)
	})
}

func TestNewCode(t *testing.T) {
	pattern := regexp.MustCompile(`^BK[A-Z0-9]{6}$`)

	for range 20 {
		code, err := booking.NewCode()
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(code), "unexpected code %q", code)
	}
}

func TestStatus(t *testing.T) {
	t.Run("blocking statuses occupy the charger", func(t *testing.T) {
		assert.True(t, booking.StatusPending.Blocks())
		assert.True(t, booking.StatusConfirmed.Blocks())
		assert.True(t, booking.StatusActive.Blocks())
		assert.False(t, booking.StatusCancelled.Blocks())
		assert.False(t, booking.StatusCompleted.Blocks())
		assert.False(t, booking.StatusExpired.Blocks())
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.False(t, booking.StatusActive.IsTerminal())
		assert.True(t, booking.StatusNoShow.IsTerminal())
		assert.True(t, booking.StatusFailed.IsTerminal())
	})
}

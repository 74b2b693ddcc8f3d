//go:build unit

package booking_test

import (
	"testing"
	"time"

	"voltspot/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end time.Time) booking.TimeWindow {
	t.Helper()
	w, err := booking.NewTimeWindow(start, end)
	require.NoError(t, err)
	return w
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func TestNewTimeWindow(t *testing.T) {
	start := at(t, "2025-06-02T10:00:00Z")

	t.Run("start before end OK", func(t *testing.T) {
		w, err := booking.NewTimeWindow(start, start.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, w.Duration())
		assert.Equal(t, 60, w.Minutes())
	})

	t.Run("start equal to end NG", func(t *testing.T) {
		_, err := booking.NewTimeWindow(start, start)
		assert.ErrorIs(t, err, booking.ErrInvalidWindow)
	})

	t.Run("start after end NG", func(t *testing.T) {
		_, err := booking.NewTimeWindow(start.Add(time.Hour), start)
		assert.ErrorIs(t, err, booking.ErrInvalidWindow)
	})
}

func TestTimeWindow_Overlaps(t *testing.T) {
	base := mustWindow(t, at(t, "2025-06-02T10:00:00Z"), at(t, "2025-06-02T12:00:00Z"))

	testCases := []struct {
		name    string
		other   booking.TimeWindow
		overlap bool
	}{
		{
			name:    "starts inside",
			other:   mustWindow(t, at(t, "2025-06-02T11:00:00Z"), at(t, "2025-06-02T13:00:00Z")),
			overlap: true,
		},
		{
			name:    "ends inside",
			other:   mustWindow(t, at(t, "2025-06-02T09:00:00Z"), at(t, "2025-06-02T11:00:00Z")),
			overlap: true,
		},
		{
			name:    "contains",
			other:   mustWindow(t, at(t, "2025-06-02T09:00:00Z"), at(t, "2025-06-02T13:00:00Z")),
			overlap: true,
		},
		{
			name:    "contained",
			other:   mustWindow(t, at(t, "2025-06-02T10:30:00Z"), at(t, "2025-06-02T11:30:00Z")),
			overlap: true,
		},
		{
			name:    "touching end does not overlap (half-open)",
			other:   mustWindow(t, at(t, "2025-06-02T12:00:00Z"), at(t, "2025-06-02T13:00:00Z")),
			overlap: false,
		},
		{
			name:    "touching start does not overlap (half-open)",
			other:   mustWindow(t, at(t, "2025-06-02T09:00:00Z"), at(t, "2025-06-02T10:00:00Z")),
			overlap: false,
		},
		{
			name:    "disjoint",
			other:   mustWindow(t, at(t, "2025-06-02T13:00:00Z"), at(t, "2025-06-02T14:00:00Z")),
			overlap: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlap, tc.other.Overlaps(base))
		})
	}
}

func TestTimeWindow_Buffered(t *testing.T) {
	buffer := 15 * time.Minute
	existing := mustWindow(t, at(t, "2025-06-02T11:10:00Z"), at(t, "2025-06-02T12:00:00Z"))

	t.Run("request adjacent to a later booking conflicts once buffered", func(t *testing.T) {
		// [10:00,11:00) buffered to [09:45,11:15) overlaps [11:10,12:00)
		requested := mustWindow(t, at(t, "2025-06-02T10:00:00Z"), at(t, "2025-06-02T11:00:00Z"))
		assert.True(t, requested.Buffered(buffer).Overlaps(existing))
	})

	t.Run("gap below buffer conflicts", func(t *testing.T) {
		// existing ends 12:00, new starts 12:10; buffered start 11:55 < 12:00
		requested := mustWindow(t, at(t, "2025-06-02T12:10:00Z"), at(t, "2025-06-02T13:00:00Z"))
		assert.True(t, requested.Buffered(buffer).Overlaps(existing))
	})

	t.Run("gap above buffer does not conflict", func(t *testing.T) {
		// existing ends 12:00, new starts 12:16; buffered start 12:01 >= 12:00
		requested := mustWindow(t, at(t, "2025-06-02T12:16:00Z"), at(t, "2025-06-02T13:00:00Z"))
		assert.False(t, requested.Buffered(buffer).Overlaps(existing))
	})
}

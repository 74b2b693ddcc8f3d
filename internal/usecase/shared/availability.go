package shared

import (
	"context"
	"time"

	"voltspot/internal/domain/booking"

	"github.com/google/uuid"
)

// AvailabilityChecker decides whether a window can be admitted on a charger.
// The requested window is widened by the turnaround buffer on both sides
// before the overlap count, so back-to-back sessions keep a gap for the
// previous renter to unplug.
type AvailabilityChecker struct {
	buffer time.Duration
}

func NewAvailabilityChecker(bufferMinutes int) *AvailabilityChecker {
	return &AvailabilityChecker{buffer: time.Duration(bufferMinutes) * time.Minute}
}

func (c *AvailabilityChecker) Buffer() time.Duration {
	return c.buffer
}

// IsAvailable must run against the same transaction that holds the charger
// row lock; the count is only authoritative while the lock is held.
func (c *AvailabilityChecker) IsAvailable(
	ctx context.Context,
	repo BookingRepository,
	chargerID uuid.UUID,
	w booking.TimeWindow,
	exclude *uuid.UUID,
) (bool, error) {
	buffered := w.Buffered(c.buffer)
	n, err := repo.CountBlocking(ctx, chargerID, buffered.Start(), buffered.End(), exclude)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

package shared

import (
	"context"
	"time"

	"voltspot/internal/domain/booking"
	"voltspot/internal/domain/charger"
	"voltspot/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Chargers() ChargerRepository
	DB() db.DBTX
}

// BookingRepository is the write-side port. Implementations classify driver
// errors into repository kinds (see infra.WrapRepoErr).
type BookingRepository interface {
	Insert(ctx context.Context, b *booking.Booking) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// CountBlocking counts bookings in a blocking status on the charger whose
	// window intersects [start, end). exclude omits one booking from the count
	// so an extension does not collide with itself.
	CountBlocking(ctx context.Context, chargerID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (int64, error)
	UpdateExtension(ctx context.Context, b *booking.Booking) error
	UpdateCancellation(ctx context.Context, b *booking.Booking) error
	UpdateCheckIn(ctx context.Context, b *booking.Booking) error
}

type ChargerRepository interface {
	// FindByIDForUpdate locks the charger row, serializing admissions on the
	// same charger for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*charger.Spec, *charger.PricingPlan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*charger.Spec, *charger.PricingPlan, error)
}

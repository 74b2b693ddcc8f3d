package repository

import (
	"context"
	"errors"
	"time"

	"voltspot/internal/domain/booking"
	"voltspot/internal/infra"
	"voltspot/internal/infra/db"
	"voltspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const insertBookingSQL = `
INSERT INTO bookings (
	id, charger_id, renter_id, booking_code,
	start_time, end_time, status, payment_status,
	subtotal, platform_fee, tax, total, paid_amount,
	vehicle_info, notes, confirmed_at
) VALUES (
	$1, $2, $3, $4,
	$5, $6, $7, $8,
	$9, $10, $11, $12, $13,
	$14, $15, $16
)`

const selectBookingForUpdateSQL = `
SELECT
	id, charger_id, renter_id, booking_code,
	start_time, end_time, status, payment_status,
	subtotal, platform_fee, tax, total, paid_amount, refund_amount,
	vehicle_info, notes,
	confirmed_at, checked_in_at, cancelled_at,
	cancellation_reason, cancelled_by, extended_times,
	created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE`

const countBlockingSQL = `
SELECT COUNT(*)
FROM bookings
WHERE charger_id = $1
  AND status = ANY($2)
  AND start_time < $4
  AND end_time > $3
  AND ($5::uuid IS NULL OR id <> $5)`

const updateExtensionSQL = `
UPDATE bookings
SET end_time = $2, total = $3, extended_times = $4, updated_at = now()
WHERE id = $1`

const updateCancellationSQL = `
UPDATE bookings
SET status = $2, cancelled_at = $3, cancellation_reason = $4,
    cancelled_by = $5, refund_amount = $6, updated_at = now()
WHERE id = $1`

const updateCheckInSQL = `
UPDATE bookings
SET status = $2, checked_in_at = $3, updated_at = now()
WHERE id = $1`

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

var _ shared.BookingRepository = (*BookingRepository)(nil)

func (r *BookingRepository) Insert(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, insertBookingSQL,
		b.ID(), b.ChargerID(), b.RenterID(), b.Code(),
		b.Window().Start(), b.Window().End(), b.Status().String(), b.PaymentStatus().String(),
		b.Subtotal(), b.PlatformFee(), b.Tax(), b.Total(), b.PaidAmount(),
		b.VehicleInfo(), b.Notes(), b.ConfirmedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, selectBookingForUpdateSQL, id)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking for update", err)
	}
	return b, nil
}

func (r *BookingRepository) CountBlocking(ctx context.Context, chargerID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (int64, error) {
	statuses := make([]string, len(booking.BlockingStatuses))
	for i, s := range booking.BlockingStatuses {
		statuses[i] = s.String()
	}

	var n int64
	err := r.db.QueryRow(ctx, countBlockingSQL, chargerID, statuses, start, end, exclude).Scan(&n)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count blocking bookings", err)
	}
	return n, nil
}

func (r *BookingRepository) UpdateExtension(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, updateExtensionSQL, b.ID(), b.Window().End(), b.Total(), b.ExtendedTimes())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking extension", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) UpdateCancellation(ctx context.Context, b *booking.Booking) error {
	var cancelledBy *string
	if by := b.CancelledBy(); by != "" {
		s := string(by)
		cancelledBy = &s
	}

	tag, err := r.db.Exec(ctx, updateCancellationSQL,
		b.ID(), b.Status().String(), b.CancelledAt(), b.CancellationReason(),
		cancelledBy, b.RefundAmount(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking cancellation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) UpdateCheckIn(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, updateCheckInSQL, b.ID(), b.Status().String(), b.CheckedInAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking check-in", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, chargerID, renterID            uuid.UUID
		code, status, paymentStatus, notes string
		startTime, endTime                 time.Time
		subtotal, platformFee, tax         decimal.Decimal
		total, paid                        decimal.Decimal
		refund                             *decimal.Decimal
		vehicleInfo                        []byte
		confirmedAt, checkedInAt           *time.Time
		cancelledAt                        *time.Time
		cancellationReason                 string
		cancelledBy                        *string
		extendedTimes                      int
		createdAt, updatedAt               time.Time
	)

	err := row.Scan(
		&id, &chargerID, &renterID, &code,
		&startTime, &endTime, &status, &paymentStatus,
		&subtotal, &platformFee, &tax, &total, &paid, &refund,
		&vehicleInfo, &notes,
		&confirmedAt, &checkedInAt, &cancelledAt,
		&cancellationReason, &cancelledBy, &extendedTimes,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	window, err := booking.NewTimeWindow(startTime, endTime)
	if err != nil {
		return nil, err
	}

	var actor booking.CancelActor
	if cancelledBy != nil {
		actor = booking.CancelActor(*cancelledBy)
	}

	return booking.Reconstruct(
		id, chargerID, renterID, code, window,
		booking.Status(status), booking.PaymentStatus(paymentStatus),
		subtotal, platformFee, tax, total, paid, refund,
		vehicleInfo, notes,
		confirmedAt, checkedInAt, cancelledAt,
		cancellationReason, actor, extendedTimes,
		createdAt, updatedAt,
	), nil
}

package readstore

import (
	"context"
	"errors"
	"time"

	"voltspot/internal/domain/booking"
	"voltspot/internal/infra"
	"voltspot/internal/infra/db"
	"voltspot/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectBookingViewSQL = `
SELECT
	b.id, b.booking_code, b.charger_id, c.title, c.host_id, b.renter_id,
	b.start_time, b.end_time, b.status, b.payment_status,
	b.subtotal, b.platform_fee, b.tax, b.total, b.paid_amount, b.refund_amount,
	b.notes, b.confirmed_at, b.checked_in_at, b.cancelled_at,
	b.cancellation_reason, b.cancelled_by, b.extended_times,
	b.created_at, b.updated_at
FROM bookings b
JOIN chargers c ON c.id = b.charger_id
WHERE b.id = $1`

const selectBookingsByRenterSQL = `
SELECT
	b.id, b.booking_code, b.charger_id, c.title,
	b.start_time, b.end_time, b.status, b.total, b.created_at
FROM bookings b
JOIN chargers c ON c.id = b.charger_id
WHERE b.renter_id = $1
ORDER BY b.start_time DESC
LIMIT $2 OFFSET $3`

const selectBlockingWindowsSQL = `
SELECT start_time, end_time
FROM bookings
WHERE charger_id = $1
  AND status = ANY($2)
  AND start_time < $4
  AND end_time > $3
ORDER BY start_time`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

var _ queries.BookingViewRepo = (*BookingReadStore)(nil)

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		v                  queries.BookingView
		notes              string
		cancellationReason string
	)

	err := s.db.QueryRow(ctx, selectBookingViewSQL, id).Scan(
		&v.ID, &v.Code, &v.ChargerID, &v.ChargerTitle, &v.HostID, &v.RenterID,
		&v.StartTime, &v.EndTime, &v.Status, &v.PaymentStatus,
		&v.Subtotal, &v.PlatformFee, &v.Tax, &v.Total, &v.PaidAmount, &v.RefundAmount,
		&notes, &v.ConfirmedAt, &v.CheckedInAt, &v.CancelledAt,
		&cancellationReason, &v.CancelledBy, &v.ExtendedTimes,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	if notes != "" {
		v.Notes = &notes
	}
	if cancellationReason != "" {
		v.CancellationReason = &cancellationReason
	}
	return &v, nil
}

func (s *BookingReadStore) FindByRenterIDPaginated(ctx context.Context, renterID uuid.UUID, limit, offset int32) ([]*queries.BookingListItem, error) {
	rows, err := s.db.Query(ctx, selectBookingsByRenterSQL, renterID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by renter", err)
	}
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.Code, &item.ChargerID, &item.ChargerTitle,
			&item.StartTime, &item.EndTime, &item.Status, &item.Total, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list row", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking list rows", err)
	}
	return items, nil
}

func (s *BookingReadStore) BlockingWindows(ctx context.Context, chargerID uuid.UUID, from, to time.Time) ([]queries.BlockedWindow, error) {
	statuses := make([]string, len(booking.BlockingStatuses))
	for i, st := range booking.BlockingStatuses {
		statuses[i] = st.String()
	}

	rows, err := s.db.Query(ctx, selectBlockingWindowsSQL, chargerID, statuses, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list blocking windows", err)
	}
	defer rows.Close()

	windows := make([]queries.BlockedWindow, 0)
	for rows.Next() {
		var w queries.BlockedWindow
		if err := rows.Scan(&w.Start, &w.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocking window", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blocking windows", err)
	}
	return windows, nil
}

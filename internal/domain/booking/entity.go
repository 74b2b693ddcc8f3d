package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransition = errors.New("transition not permitted from current status")
	ErrInvalidExtension  = errors.New("new end time must be after current end time")
)

// Booking is a renter's claim on a charger for a time window, with the price
// computed at admission denormalized onto it.
type Booking struct {
	id            uuid.UUID
	chargerID     uuid.UUID
	renterID      uuid.UUID
	code          string
	window        TimeWindow
	status        Status
	paymentStatus PaymentStatus

	subtotal    decimal.Decimal
	platformFee decimal.Decimal
	tax         decimal.Decimal
	total       decimal.Decimal
	paid        decimal.Decimal
	refund      *decimal.Decimal

	vehicleInfo []byte
	notes       string

	confirmedAt        *time.Time
	checkedInAt        *time.Time
	cancelledAt        *time.Time
	cancellationReason string
	cancelledBy        CancelActor
	extendedTimes      int

	createdAt time.Time
	updatedAt time.Time
}

func NewBooking(
	chargerID, renterID uuid.UUID,
	window TimeWindow,
	code string,
	cost CostBreakdown,
	vehicleInfo []byte,
	notes string,
) *Booking {
	return &Booking{
		id:            uuid.New(),
		chargerID:     chargerID,
		renterID:      renterID,
		code:          code,
		window:        window,
		status:        StatusPending,
		paymentStatus: PaymentPending,
		subtotal:      cost.Subtotal,
		platformFee:   cost.PlatformFee,
		tax:           cost.Tax,
		total:         cost.Total,
		paid:          decimal.Zero,
		vehicleInfo:   vehicleInfo,
		notes:         notes,
	}
}

func Reconstruct(
	id, chargerID, renterID uuid.UUID,
	code string,
	window TimeWindow,
	status Status,
	paymentStatus PaymentStatus,
	subtotal, platformFee, tax, total, paid decimal.Decimal,
	refund *decimal.Decimal,
	vehicleInfo []byte,
	notes string,
	confirmedAt, checkedInAt, cancelledAt *time.Time,
	cancellationReason string,
	cancelledBy CancelActor,
	extendedTimes int,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		chargerID:          chargerID,
		renterID:           renterID,
		code:               code,
		window:             window,
		status:             status,
		paymentStatus:      paymentStatus,
		subtotal:           subtotal,
		platformFee:        platformFee,
		tax:                tax,
		total:              total,
		paid:               paid,
		refund:             refund,
		vehicleInfo:        vehicleInfo,
		notes:              notes,
		confirmedAt:        confirmedAt,
		checkedInAt:        checkedInAt,
		cancelledAt:        cancelledAt,
		cancellationReason: cancellationReason,
		cancelledBy:        cancelledBy,
		extendedTimes:      extendedTimes,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Confirm moves a pending booking to confirmed. Used for auto-accept at
// admission and by the payment collaborator on capture.
func (b *Booking) Confirm(now time.Time) error {
	if b.status != StatusPending {
		return ErrInvalidTransition
	}
	b.status = StatusConfirmed
	b.confirmedAt = &now
	return nil
}

// CheckIn moves a confirmed booking to active.
func (b *Booking) CheckIn(now time.Time) error {
	if !b.status.CanCheckIn() {
		return ErrInvalidTransition
	}
	b.status = StatusActive
	b.checkedInAt = &now
	return nil
}

// Extend pushes the end time out and adds the incremental cost of the delta
// window to the running total. Availability of the delta window is the
// caller's responsibility.
func (b *Booking) Extend(newEnd time.Time, additional CostBreakdown) error {
	if !b.status.CanExtend() {
		return ErrInvalidTransition
	}
	if !newEnd.After(b.window.end) {
		return ErrInvalidExtension
	}
	b.window = TimeWindow{start: b.window.start, end: newEnd}
	b.total = b.total.Add(additional.Total)
	b.extendedTimes++
	return nil
}

// Cancel records the cancellation and the refund decided by the policy.
func (b *Booking) Cancel(now time.Time, reason string, by CancelActor, refund RefundResult) error {
	if !b.status.CanCancel() {
		return ErrInvalidTransition
	}
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.cancellationReason = reason
	b.cancelledBy = by
	amount := refund.RefundAmount
	b.refund = &amount
	return nil
}

func (b *Booking) ID() uuid.UUID                  { return b.id }
func (b *Booking) ChargerID() uuid.UUID           { return b.chargerID }
func (b *Booking) RenterID() uuid.UUID            { return b.renterID }
func (b *Booking) Code() string                   { return b.code }
func (b *Booking) Window() TimeWindow             { return b.window }
func (b *Booking) Status() Status                 { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus   { return b.paymentStatus }
func (b *Booking) Subtotal() decimal.Decimal      { return b.subtotal }
func (b *Booking) PlatformFee() decimal.Decimal   { return b.platformFee }
func (b *Booking) Tax() decimal.Decimal           { return b.tax }
func (b *Booking) Total() decimal.Decimal         { return b.total }
func (b *Booking) PaidAmount() decimal.Decimal    { return b.paid }
func (b *Booking) RefundAmount() *decimal.Decimal { return b.refund }
func (b *Booking) VehicleInfo() []byte            { return b.vehicleInfo }
func (b *Booking) Notes() string                  { return b.notes }
func (b *Booking) ConfirmedAt() *time.Time        { return b.confirmedAt }
func (b *Booking) CheckedInAt() *time.Time        { return b.checkedInAt }
func (b *Booking) CancelledAt() *time.Time        { return b.cancelledAt }
func (b *Booking) CancellationReason() string     { return b.cancellationReason }
func (b *Booking) CancelledBy() CancelActor       { return b.cancelledBy }
func (b *Booking) ExtendedTimes() int             { return b.extendedTimes }
func (b *Booking) CreatedAt() time.Time           { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time           { return b.updatedAt }

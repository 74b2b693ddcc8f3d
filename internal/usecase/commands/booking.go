package commands

import (
	"context"
	"time"

	"voltspot/internal/domain/booking"
	reqdto "voltspot/internal/handler/dto/request"
	"voltspot/internal/infra"
	"voltspot/internal/pkg/clock"
	"voltspot/internal/pkg/errs"
	"voltspot/internal/usecase/queries"
	"voltspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrChargerNotFound         = errs.New("charger not found")
	ErrChargerInactive         = errs.New("charger is not active")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrInvalidTimeWindow       = errs.New("invalid time window")
	ErrPastStartTime           = errs.New("start time is in the past")
	ErrTooFarInAdvance         = errs.New("start time exceeds advance booking limit")
	ErrInvalidSessionLength    = errs.New("session length outside plan limits")
	ErrInvalidStateTransition  = errs.New("operation not permitted in current status")
	ErrCheckInOutsideWindow    = errs.New("check-in outside booking window")
	ErrPermissionDenied        = errs.New("permission denied")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// Booking code collisions are resolved by regenerating; the unique index is
// the arbiter.
const maxCodeAttempts = 3

const roleAdmin = "admin"

type BookingCommands interface {
	Create(ctx context.Context, req reqdto.CreateBookingRequest, renterID uuid.UUID) (*queries.BookingView, error)
	Extend(ctx context.Context, bookingID, actorID uuid.UUID, role string, req reqdto.ExtendBookingRequest) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID, actorID uuid.UUID, role string, req reqdto.CancelBookingRequest) (*queries.BookingView, error)
	CheckIn(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
}

type bookingUseCaseImpl struct {
	uow            shared.UnitOfWork
	checker        *shared.AvailabilityChecker
	calc           *booking.PriceCalculator
	policy         booking.CancellationPolicy
	bookingQueries queries.BookingQueries
	clock          clock.Clock
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	checker *shared.AvailabilityChecker,
	calc *booking.PriceCalculator,
	policy booking.CancellationPolicy,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:            uow,
		checker:        checker,
		calc:           calc,
		policy:         policy,
		bookingQueries: bookingQueries,
		clock:          clk,
	}
}

// Create admits a booking: it locks the charger row, re-checks availability
// under the lock, prices the window and persists in one transaction. The
// store's exclusion constraint is the final arbiter against writers that did
// not take the lock.
func (u *bookingUseCaseImpl) Create(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
	renterID uuid.UUID,
) (*queries.BookingView, error) {
	window, err := booking.NewTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeWindow)
	}

	now := u.clock.Now()
	if window.Start().Before(now) {
		return nil, ErrPastStartTime
	}

	var createdID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		spec, plan, err := tx.Chargers().FindByIDForUpdate(ctx, req.ChargerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrChargerNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !spec.Active {
			return ErrChargerInactive
		}
		if plan.AdvanceBookingHours > 0 {
			limit := now.Add(time.Duration(plan.AdvanceBookingHours) * time.Hour)
			if window.Start().After(limit) {
				return ErrTooFarInAdvance
			}
		}

		available, err := u.checker.IsAvailable(ctx, tx.Bookings(), spec.ID, window, nil)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !available {
			return ErrBookingConflict
		}

		cost, err := u.calc.Quote(*spec, *plan, window)
		if err != nil {
			return errs.Mark(err, ErrInvalidSessionLength)
		}

		createdID, err = u.insertWithFreshCode(ctx, tx, spec.AutoAccept, renterID, window, cost, req, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	view, err := u.bookingQueries.GetByIDSystem(ctx, createdID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (u *bookingUseCaseImpl) insertWithFreshCode(
	ctx context.Context,
	tx shared.Tx,
	autoAccept bool,
	renterID uuid.UUID,
	window booking.TimeWindow,
	cost booking.CostBreakdown,
	req reqdto.CreateBookingRequest,
	now time.Time,
) (uuid.UUID, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := booking.NewCode()
		if err != nil {
			return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		b := booking.NewBooking(req.ChargerID, renterID, window, code, cost, req.VehicleInfo, req.GetNotes())
		if autoAccept {
			if err := b.Confirm(now); err != nil {
				return uuid.Nil, errs.Mark(err, ErrInvalidStateTransition)
			}
		}

		err = tx.Bookings().Insert(ctx, b)
		if err == nil {
			return b.ID(), nil
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			continue
		}
		if infra.IsKind(err, infra.KindConflict) {
			return uuid.Nil, ErrBookingConflict
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return uuid.Nil, errs.Mark(errs.New("booking code collisions exhausted retries"), ErrDatabaseOperationFailed)
}

// Extend prices only the added tail of the window; the booking fee is not
// charged again. The total session length stays bounded by the plan maximum.
func (u *bookingUseCaseImpl) Extend(
	ctx context.Context,
	bookingID, actorID uuid.UUID,
	role string,
	req reqdto.ExtendBookingRequest,
) (*queries.BookingView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := u.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.RenterID() != actorID && role != roleAdmin {
			return ErrPermissionDenied
		}

		spec, plan, err := tx.Chargers().FindByIDForUpdate(ctx, b.ChargerID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrChargerNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !req.NewEndTime.After(b.Window().End()) {
			return ErrInvalidTimeWindow
		}
		total, err := booking.NewTimeWindow(b.Window().Start(), req.NewEndTime)
		if err != nil {
			return errs.Mark(err, ErrInvalidTimeWindow)
		}
		if total.Minutes() > plan.MaxSessionMinutes {
			return ErrInvalidSessionLength
		}

		delta, err := booking.NewTimeWindow(b.Window().End(), req.NewEndTime)
		if err != nil {
			return errs.Mark(err, ErrInvalidTimeWindow)
		}

		excludeID := b.ID()
		available, err := u.checker.IsAvailable(ctx, tx.Bookings(), spec.ID, delta, &excludeID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !available {
			return ErrBookingConflict
		}

		deltaPlan := *plan
		deltaPlan.MinSessionMinutes = 0
		deltaPlan.BookingFee = decimal.Zero
		cost, err := u.calc.Quote(*spec, deltaPlan, delta)
		if err != nil {
			return errs.Mark(err, ErrInvalidSessionLength)
		}

		if err := b.Extend(req.NewEndTime, cost); err != nil {
			return errs.Mark(err, ErrInvalidStateTransition)
		}
		if err := tx.Bookings().UpdateExtension(ctx, b); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrBookingConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readBack(ctx, bookingID)
}

func (u *bookingUseCaseImpl) Cancel(
	ctx context.Context,
	bookingID, actorID uuid.UUID,
	role string,
	req reqdto.CancelBookingRequest,
) (*queries.BookingView, error) {
	now := u.clock.Now()

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := u.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		spec, plan, err := tx.Chargers().FindByID(ctx, b.ChargerID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrChargerNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		actor, err := cancelActor(actorID, role, b.RenterID(), spec.HostID)
		if err != nil {
			return err
		}

		refund := u.policy.Assess(b.PaidAmount(), plan.LateCancellationFee, b.Window().Start(), now)
		if err := b.Cancel(now, req.GetReason(), actor, refund); err != nil {
			return errs.Mark(err, ErrInvalidStateTransition)
		}
		if err := tx.Bookings().UpdateCancellation(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readBack(ctx, bookingID)
}

func cancelActor(actorID uuid.UUID, role string, renterID, hostID uuid.UUID) (booking.CancelActor, error) {
	switch {
	case actorID == renterID:
		return booking.CancelledByRenter, nil
	case actorID == hostID:
		return booking.CancelledByHost, nil
	case role == roleAdmin:
		return booking.CancelledByAdmin, nil
	default:
		return "", ErrPermissionDenied
	}
}

// CheckIn accepts arrivals slightly early, within the same turnaround buffer
// used for admission.
func (u *bookingUseCaseImpl) CheckIn(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	now := u.clock.Now()

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := u.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.RenterID() != actorID {
			return ErrPermissionDenied
		}

		earliest := b.Window().Start().Add(-u.checker.Buffer())
		if now.Before(earliest) || !now.Before(b.Window().End()) {
			return ErrCheckInOutsideWindow
		}

		if err := b.CheckIn(now); err != nil {
			return errs.Mark(err, ErrInvalidStateTransition)
		}
		if err := tx.Bookings().UpdateCheckIn(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readBack(ctx, bookingID)
}

func (u *bookingUseCaseImpl) lockBooking(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return b, nil
}

func (u *bookingUseCaseImpl) readBack(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view, err := u.bookingQueries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

package queries

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"voltspot/internal/domain/booking"
	"voltspot/internal/domain/charger"
	"voltspot/internal/infra"
	"voltspot/internal/pkg/clock"
	"voltspot/internal/pkg/config"
	"voltspot/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrChargerNotFound = errs.New("charger not found")
	ErrChargerInactive = errs.New("charger is not active")
	ErrAccessDenied    = errs.New("access denied")
	ErrPastDate        = errs.New("cannot list availability for a past date")
	ErrInvalidWindow   = errs.New("invalid time window")
)

// Read models (DTO for read side)
type BookingView struct {
	ID                 uuid.UUID        `json:"id"`
	Code               string           `json:"code"`
	ChargerID          uuid.UUID        `json:"charger_id"`
	ChargerTitle       string           `json:"charger_title"`
	HostID             uuid.UUID        `json:"host_id"`
	RenterID           uuid.UUID        `json:"renter_id"`
	StartTime          time.Time        `json:"start_time"`
	EndTime            time.Time        `json:"end_time"`
	Status             string           `json:"status"`
	PaymentStatus      string           `json:"payment_status"`
	Subtotal           decimal.Decimal  `json:"subtotal"`
	PlatformFee        decimal.Decimal  `json:"platform_fee"`
	Tax                decimal.Decimal  `json:"tax"`
	Total              decimal.Decimal  `json:"total"`
	PaidAmount         decimal.Decimal  `json:"paid_amount"`
	RefundAmount       *decimal.Decimal `json:"refund_amount,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
	ConfirmedAt        *time.Time       `json:"confirmed_at,omitempty"`
	CheckedInAt        *time.Time       `json:"checked_in_at,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	CancelledBy        *string          `json:"cancelled_by,omitempty"`
	ExtendedTimes      int32            `json:"extended_times"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	ChargerID    uuid.UUID       `json:"charger_id"`
	ChargerTitle string          `json:"charger_title"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
}

type SlotView struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

type EstimateView struct {
	DurationMinutes int             `json:"duration_minutes"`
	EstimatedKwh    decimal.Decimal `json:"estimated_kwh"`
	PricingMode     string          `json:"pricing_mode"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Multiplier      decimal.Decimal `json:"multiplier"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	BookingFee      decimal.Decimal `json:"booking_fee"`
	PlatformFee     decimal.Decimal `json:"platform_fee"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
}

// BlockedWindow is an occupied interval on a charger, status-filtered by the
// read store to blocking statuses only.
type BlockedWindow struct {
	Start time.Time
	End   time.Time
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRenterIDPaginated(ctx context.Context, renterID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
	// BlockingWindows returns occupied intervals intersecting [from, to).
	BlockingWindows(ctx context.Context, chargerID uuid.UUID, from, to time.Time) ([]BlockedWindow, error)
}

type ChargerReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*charger.Spec, *charger.PricingPlan, error)
}

// SlotCache caches one day of slots per charger. A (nil, nil) return is a
// cache miss; cache failures must not fail the query.
type SlotCache interface {
	GetDay(ctx context.Context, chargerID uuid.UUID, day string) ([]SlotView, error)
	SetDay(ctx context.Context, chargerID uuid.UUID, day string, slots []SlotView) error
}

type BookingQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses the actor guard for read-after-write inside commands.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByRenter(ctx context.Context, renterID uuid.UUID, limit, offset int) ([]*BookingListItem, error)
	// AvailabilitySlots enumerates a day; slotMinutes <= 0 falls back to the
	// configured slot size.
	AvailabilitySlots(ctx context.Context, chargerID uuid.UUID, day time.Time, slotMinutes int) ([]SlotView, error)
	EstimatePrice(ctx context.Context, chargerID uuid.UUID, start, end time.Time) (*EstimateView, error)
}

type bookingQueriesImpl struct {
	repo     BookingViewRepo
	chargers ChargerReader
	cache    SlotCache
	calc     *booking.PriceCalculator
	clock    clock.Clock
	cfg      config.BookingConfig
}

func NewBookingQueries(
	repo BookingViewRepo,
	chargers ChargerReader,
	cache SlotCache,
	calc *booking.PriceCalculator,
	clk clock.Clock,
	cfg config.BookingConfig,
) BookingQueries {
	return &bookingQueriesImpl{
		repo:     repo,
		chargers: chargers,
		cache:    cache,
		calc:     calc,
		clock:    clk,
		cfg:      cfg,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, role string, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if role != "admin" && view.RenterID != actorID && view.HostID != actorID {
		return nil, ErrAccessDenied
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByRenter(ctx context.Context, renterID uuid.UUID, limit, offset int) ([]*BookingListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return q.repo.FindByRenterIDPaginated(ctx, renterID, int32(limit), int32(offset))
}

// AvailabilitySlots enumerates the operating day in fixed-size slots and marks
// each one available or not. The answer is advisory: admission re-checks under
// the charger row lock, so a stale cached day can never produce a double
// booking.
func (q *bookingQueriesImpl) AvailabilitySlots(ctx context.Context, chargerID uuid.UUID, day time.Time, slotMinutes int) ([]SlotView, error) {
	if slotMinutes <= 0 {
		slotMinutes = q.cfg.SlotMinutes
	}
	now := q.clock.Now()
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dayStart.Before(today) {
		return nil, ErrPastDate
	}

	spec, _, err := q.chargers.FindByID(ctx, chargerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrChargerNotFound
		}
		return nil, err
	}
	if !spec.Active {
		return nil, ErrChargerInactive
	}

	cacheKey := dayStart.Format("2006-01-02") + ":" + strconv.Itoa(slotMinutes)
	if cached, cacheErr := q.cache.GetDay(ctx, chargerID, cacheKey); cacheErr != nil {
		slog.Warn("slot cache read failed", "charger_id", chargerID, "error", cacheErr.Error())
	} else if cached != nil {
		return cached, nil
	}

	buffer := time.Duration(q.cfg.BufferMinutes) * time.Minute
	open := dayStart.Add(time.Duration(q.cfg.OperatingOpenHour) * time.Hour)
	closing := dayStart.Add(time.Duration(q.cfg.OperatingCloseHour) * time.Hour)

	blocked, err := q.repo.BlockingWindows(ctx, chargerID, open.Add(-buffer), closing.Add(buffer))
	if err != nil {
		return nil, err
	}

	step := time.Duration(slotMinutes) * time.Minute
	slots := make([]SlotView, 0, int(closing.Sub(open)/step))
	for start := open; !start.Add(step).After(closing); start = start.Add(step) {
		end := start.Add(step)
		slots = append(slots, SlotView{
			StartTime: start,
			EndTime:   end,
			Available: end.After(now) && !overlapsAny(start.Add(-buffer), end.Add(buffer), blocked),
		})
	}

	if cacheErr := q.cache.SetDay(ctx, chargerID, cacheKey, slots); cacheErr != nil {
		slog.Warn("slot cache write failed", "charger_id", chargerID, "error", cacheErr.Error())
	}

	return slots, nil
}

func overlapsAny(start, end time.Time, blocked []BlockedWindow) bool {
	for _, b := range blocked {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}

func (q *bookingQueriesImpl) EstimatePrice(ctx context.Context, chargerID uuid.UUID, start, end time.Time) (*EstimateView, error) {
	spec, plan, err := q.chargers.FindByID(ctx, chargerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrChargerNotFound
		}
		return nil, err
	}
	if !spec.Active {
		return nil, ErrChargerInactive
	}

	window, err := booking.NewTimeWindow(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidWindow)
	}

	cost, err := q.calc.Quote(*spec, *plan, window)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidWindow)
	}

	return &EstimateView{
		DurationMinutes: cost.DurationMinutes,
		EstimatedKwh:    cost.EstimatedKwh,
		PricingMode:     cost.Mode.String(),
		UnitPrice:       cost.UnitPrice,
		Multiplier:      cost.Multiplier,
		Subtotal:        cost.Subtotal,
		BookingFee:      cost.BookingFee,
		PlatformFee:     cost.PlatformFee,
		Tax:             cost.Tax,
		Total:           cost.Total,
	}, nil
}

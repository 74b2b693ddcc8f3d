package repository

import (
	"context"
	"errors"

	"voltspot/internal/domain/charger"
	"voltspot/internal/infra"
	"voltspot/internal/infra/db"
	"voltspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectChargerSQL = `
SELECT
	c.id, c.host_id, c.title, c.max_power_kw, c.auto_accept, c.is_active,
	p.pricing_mode, p.unit_price, p.min_session_minutes, p.max_session_minutes,
	p.peak_start_hour, p.peak_end_hour, p.peak_multiplier, p.weekend_multiplier,
	p.booking_fee, p.overstay_fee_per_hour, p.late_cancellation_fee, p.advance_booking_hours
FROM chargers c
JOIN charger_pricing p ON p.charger_id = c.id
WHERE c.id = $1`

// Locks only the charger row; the pricing row stays readable to others.
const selectChargerForUpdateSQL = selectChargerSQL + `
FOR UPDATE OF c`

type ChargerRepository struct {
	db db.DBTX
}

func NewChargerRepository(dbtx db.DBTX) *ChargerRepository {
	return &ChargerRepository{db: dbtx}
}

var _ shared.ChargerRepository = (*ChargerRepository)(nil)

func (r *ChargerRepository) FindByID(ctx context.Context, id uuid.UUID) (*charger.Spec, *charger.PricingPlan, error) {
	return r.find(ctx, selectChargerSQL, id)
}

func (r *ChargerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*charger.Spec, *charger.PricingPlan, error) {
	return r.find(ctx, selectChargerForUpdateSQL, id)
}

func (r *ChargerRepository) find(ctx context.Context, sql string, id uuid.UUID) (*charger.Spec, *charger.PricingPlan, error) {
	var (
		spec charger.Spec
		plan charger.PricingPlan
		mode string
	)

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&spec.ID, &spec.HostID, &spec.Title, &spec.MaxPowerKw, &spec.AutoAccept, &spec.Active,
		&mode, &plan.UnitPrice, &plan.MinSessionMinutes, &plan.MaxSessionMinutes,
		&plan.PeakStartHour, &plan.PeakEndHour, &plan.PeakMultiplier, &plan.WeekendMultiplier,
		&plan.BookingFee, &plan.OverstayFeePerHour, &plan.LateCancellationFee, &plan.AdvanceBookingHours,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, infra.WrapRepoErr("charger not found", err, infra.KindNotFound)
		}
		return nil, nil, infra.WrapRepoErr("failed to find charger", err)
	}

	plan.Mode = charger.PricingMode(mode)
	return &spec, &plan, nil
}

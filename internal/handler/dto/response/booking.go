package response

import (
	"time"

	"voltspot/internal/usecase/queries"

	"github.com/google/uuid"
)

// Monetary fields are serialized as decimal strings so clients never see
// float artefacts.
type BookingResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	ChargerID          uuid.UUID  `json:"charger_id"`
	ChargerTitle       string     `json:"charger_title"`
	RenterID           uuid.UUID  `json:"renter_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	Subtotal           string     `json:"subtotal"`
	PlatformFee        string     `json:"platform_fee"`
	Tax                string     `json:"tax"`
	Total              string     `json:"total"`
	PaidAmount         string     `json:"paid_amount"`
	RefundAmount       *string    `json:"refund_amount,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CheckedInAt        *time.Time `json:"checked_in_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledBy        *string    `json:"cancelled_by,omitempty"`
	ExtendedTimes      int32      `json:"extended_times"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type BookingListResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	ChargerID    uuid.UUID `json:"charger_id"`
	ChargerTitle string    `json:"charger_title"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	Total        string    `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

type AvailabilityResponse struct {
	ChargerID uuid.UUID      `json:"charger_id"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
}

type EstimateResponse struct {
	DurationMinutes int    `json:"duration_minutes"`
	EstimatedKwh    string `json:"estimated_kwh"`
	PricingMode     string `json:"pricing_mode"`
	UnitPrice       string `json:"unit_price"`
	Multiplier      string `json:"multiplier"`
	Subtotal        string `json:"subtotal"`
	BookingFee      string `json:"booking_fee"`
	PlatformFee     string `json:"platform_fee"`
	Tax             string `json:"tax"`
	Total           string `json:"total"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{
		ID:                 v.ID,
		Code:               v.Code,
		ChargerID:          v.ChargerID,
		ChargerTitle:       v.ChargerTitle,
		RenterID:           v.RenterID,
		StartTime:          v.StartTime,
		EndTime:            v.EndTime,
		Status:             v.Status,
		PaymentStatus:      v.PaymentStatus,
		Subtotal:           v.Subtotal.StringFixed(2),
		PlatformFee:        v.PlatformFee.StringFixed(2),
		Tax:                v.Tax.StringFixed(2),
		Total:              v.Total.StringFixed(2),
		PaidAmount:         v.PaidAmount.StringFixed(2),
		Notes:              v.Notes,
		ConfirmedAt:        v.ConfirmedAt,
		CheckedInAt:        v.CheckedInAt,
		CancelledAt:        v.CancelledAt,
		CancellationReason: v.CancellationReason,
		CancelledBy:        v.CancelledBy,
		ExtendedTimes:      v.ExtendedTimes,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
	if v.RefundAmount != nil {
		refund := v.RefundAmount.StringFixed(2)
		resp.RefundAmount = &refund
	}
	return resp
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:           item.ID,
		Code:         item.Code,
		ChargerID:    item.ChargerID,
		ChargerTitle: item.ChargerTitle,
		StartTime:    item.StartTime,
		EndTime:      item.EndTime,
		Status:       item.Status,
		Total:        item.Total.StringFixed(2),
		CreatedAt:    item.CreatedAt,
	}
}

func FromSlotViews(chargerID uuid.UUID, date string, slots []queries.SlotView) *AvailabilityResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{StartTime: s.StartTime, EndTime: s.EndTime, Available: s.Available}
	}
	return &AvailabilityResponse{ChargerID: chargerID, Date: date, Slots: out}
}

func FromEstimateView(v *queries.EstimateView) *EstimateResponse {
	return &EstimateResponse{
		DurationMinutes: v.DurationMinutes,
		EstimatedKwh:    v.EstimatedKwh.StringFixed(2),
		PricingMode:     v.PricingMode,
		UnitPrice:       v.UnitPrice.String(),
		Multiplier:      v.Multiplier.String(),
		Subtotal:        v.Subtotal.StringFixed(2),
		BookingFee:      v.BookingFee.StringFixed(2),
		PlatformFee:     v.PlatformFee.StringFixed(2),
		Tax:             v.Tax.StringFixed(2),
		Total:           v.Total.StringFixed(2),
	}
}

package request

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ChargerID   uuid.UUID       `json:"charger_id" binding:"required"`
	StartTime   time.Time       `json:"start_time" binding:"required"`
	EndTime     time.Time       `json:"end_time" binding:"required"`
	VehicleInfo json.RawMessage `json:"vehicle_info,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

func (r CreateBookingRequest) GetNotes() string {
	if r.Notes == nil {
		return ""
	}
	return *r.Notes
}

type ExtendBookingRequest struct {
	NewEndTime time.Time `json:"new_end_time" binding:"required"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (r CancelBookingRequest) GetReason() string {
	if r.Reason == nil {
		return ""
	}
	return *r.Reason
}

type EstimateRequest struct {
	ChargerID uuid.UUID `json:"charger_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

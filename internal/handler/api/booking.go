package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	reqdto "voltspot/internal/handler/dto/request"
	resdto "voltspot/internal/handler/dto/response"
	"voltspot/internal/handler/httperr"
	"voltspot/internal/handler/middleware"
	"voltspot/internal/usecase/commands"
	"voltspot/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Book a charger for a time window
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.bookingCommands.Create(c.Request.Context(), req, userID)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, role, bookingID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), userID, role, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, queries.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings
// @Description List bookings for the current user
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} resdto.BookingListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	items, err := h.bookingQueries.ListByRenter(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Extend booking
// @Description Push the booking end time out; only the added window is charged
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ExtendBookingRequest true "Extension request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/extend [post]
func (h *BookingHandler) ExtendBooking(c *gin.Context) {
	userID, role, bookingID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req reqdto.ExtendBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.bookingCommands.Extend(c.Request.Context(), bookingID, userID, role, req)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Description Cancel a booking; the refund follows the cancellation policy
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, role, bookingID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	view, err := h.bookingCommands.Cancel(c.Request.Context(), bookingID, userID, role, req)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Check in
// @Description Start the charging session for a confirmed booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckInBooking(c *gin.Context) {
	userID, _, bookingID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	view, err := h.bookingCommands.CheckIn(c.Request.Context(), bookingID, userID)
	if err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Charger availability
// @Description List the charger's slots for a day
// @Tags chargers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Charger ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Param slot_minutes query int false "Slot size in minutes"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /chargers/{id}/availability [get]
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	chargerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid charger ID format",
		})
		return
	}

	dateStr := c.Query("date")
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	slotMinutes := intQuery(c, "slot_minutes", 0)

	slots, err := h.bookingQueries.AvailabilitySlots(c.Request.Context(), chargerID, day, slotMinutes)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrChargerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
		case errors.Is(err, queries.ErrChargerInactive):
			c.JSON(http.StatusNotFound, gin.H{"error": "Charger is not active"})
		case errors.Is(err, queries.ErrPastDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date is in the past"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotViews(chargerID, dateStr, slots))
}

// @Summary Estimate price
// @Description Price a window without creating a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.EstimateRequest true "Estimate request"
// @Success 200 {object} resdto.EstimateResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/estimate [post]
func (h *BookingHandler) EstimatePrice(c *gin.Context) {
	var req reqdto.EstimateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	est, err := h.bookingQueries.EstimatePrice(c.Request.Context(), req.ChargerID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrChargerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
		case errors.Is(err, queries.ErrChargerInactive):
			c.JSON(http.StatusNotFound, gin.H{"error": "Charger is not active"})
		case errors.Is(err, queries.ErrInvalidWindow):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromEstimateView(est))
}

func (h *BookingHandler) actorAndID(c *gin.Context) (uuid.UUID, string, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, "", uuid.Nil, false
	}
	role, _ := middleware.GetUserRole(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return uuid.Nil, "", uuid.Nil, false
	}
	return userID, role, bookingID, true
}

func (h *BookingHandler) writeCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrChargerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, commands.ErrChargerInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Charger is not active"})
	case errors.Is(err, commands.ErrInvalidTimeWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
	case errors.Is(err, commands.ErrPastStartTime):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start time is in the past"})
	case errors.Is(err, commands.ErrTooFarInAdvance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start time exceeds the advance booking limit"})
	case errors.Is(err, commands.ErrInvalidSessionLength):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Session length outside plan limits"})
	case errors.Is(err, commands.ErrBookingConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Time window is not available"})
	case errors.Is(err, commands.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Operation not permitted in current status"})
	case errors.Is(err, commands.ErrCheckInOutsideWindow):
		c.JSON(http.StatusConflict, gin.H{"error": "Check-in outside booking window"})
	case errors.Is(err, commands.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voltspot/internal/handler/api"
	"voltspot/internal/usecase/commands"
	"voltspot/internal/usecase/queries"
	commandsmock "voltspot/tests/mock/commands"
	queriesmock "voltspot/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	actorID      uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", "renter")
		c.Next()
	}

	s.router.POST("/api/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/api/bookings", authMiddleware, s.handler.ListBookings)
	s.router.POST("/api/bookings/estimate", authMiddleware, s.handler.EstimatePrice)
	s.router.GET("/api/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.POST("/api/bookings/:id/extend", authMiddleware, s.handler.ExtendBooking)
	s.router.POST("/api/bookings/:id/cancel", authMiddleware, s.handler.CancelBooking)
	s.router.POST("/api/bookings/:id/check-in", authMiddleware, s.handler.CheckInBooking)
	s.router.GET("/api/chargers/:id/availability", authMiddleware, s.handler.GetAvailability)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) perform(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func sampleView() *queries.BookingView {
	start := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	return &queries.BookingView{
		ID:        uuid.New(),
		Code:      "BKA1B2C3",
		ChargerID: uuid.New(),
		RenterID:  uuid.New(),
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Status:    "confirmed",
		Subtotal:  decimal.NewFromInt(200),
		Total:     decimal.NewFromFloat(235.4),
	}
}

func createBody(view *queries.BookingView) map[string]any {
	return map[string]any{
		"charger_id": view.ChargerID.String(),
		"start_time": view.StartTime.Format(time.RFC3339),
		"end_time":   view.EndTime.Format(time.RFC3339),
	}
}

// ================================================================================
// CreateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/api/bookings"
	view := sampleView()

	s.Run("success: returns 201 with the booking", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.actorID).
			Return(view, nil).Times(1)

		rec := s.perform(http.MethodPost, url, createBody(view))
		s.Equal(http.StatusCreated, rec.Code)

		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(view.Code, body["code"])
		s.Equal("235.40", body["total"])
	})

	s.Run("error: 400 on malformed body", func() {
		rec := s.perform(http.MethodPost, url, map[string]any{"charger_id": "not-a-uuid"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 400 on missing required fields", func() {
		rec := s.perform(http.MethodPost, url, map[string]any{"charger_id": view.ChargerID.String()})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 401 without a token", func() {
		req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(nil))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	testCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "404 when charger unknown", err: commands.ErrChargerNotFound, expectCode: http.StatusNotFound},
		{name: "422 when charger inactive", err: commands.ErrChargerInactive, expectCode: http.StatusUnprocessableEntity},
		{name: "400 when start is past", err: commands.ErrPastStartTime, expectCode: http.StatusBadRequest},
		{name: "400 when too far ahead", err: commands.ErrTooFarInAdvance, expectCode: http.StatusBadRequest},
		{name: "422 when session length invalid", err: commands.ErrInvalidSessionLength, expectCode: http.StatusUnprocessableEntity},
		{name: "409 when window occupied", err: commands.ErrBookingConflict, expectCode: http.StatusConflict},
		{name: "500 otherwise", err: commands.ErrDatabaseOperationFailed, expectCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.actorID).
				Return(nil, tc.err).Times(1)

			rec := s.perform(http.MethodPost, url, createBody(view))
			s.Equal(tc.expectCode, rec.Code)
		})
	}
}

// ================================================================================
// GetBooking / ListBookings
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBooking() {
	view := sampleView()

	s.Run("success: returns 200", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, "renter", view.ID).
			Return(view, nil).Times(1)

		rec := s.perform(http.MethodGet, "/api/bookings/"+view.ID.String(), nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := s.perform(http.MethodGet, "/api/bookings/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 when unknown", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, "renter", view.ID).
			Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := s.perform(http.MethodGet, "/api/bookings/"+view.ID.String(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 403 for a foreign booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, "renter", view.ID).
			Return(nil, queries.ErrAccessDenied).Times(1)

		rec := s.perform(http.MethodGet, "/api/bookings/"+view.ID.String(), nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestListBookings() {
	s.Run("success: passes pagination through", func() {
		s.mockQueries.EXPECT().ListByRenter(gomock.Any(), s.actorID, 10, 20).
			Return([]*queries.BookingListItem{{ID: uuid.New()}}, nil).Times(1)

		rec := s.perform(http.MethodGet, "/api/bookings?limit=10&offset=20", nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: defaults applied for absent params", func() {
		s.mockQueries.EXPECT().ListByRenter(gomock.Any(), s.actorID, 50, 0).
			Return(nil, nil).Times(1)

		rec := s.perform(http.MethodGet, "/api/bookings", nil)
		s.Equal(http.StatusOK, rec.Code)
	})
}

// ================================================================================
// ExtendBooking / CancelBooking / CheckInBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestExtendBooking() {
	view := sampleView()
	url := "/api/bookings/" + view.ID.String() + "/extend"
	body := map[string]any{"new_end_time": view.EndTime.Add(time.Hour).Format(time.RFC3339)}

	s.Run("success: returns 200", func() {
		s.mockCommands.EXPECT().Extend(gomock.Any(), view.ID, s.actorID, "renter", gomock.Any()).
			Return(view, nil).Times(1)

		rec := s.perform(http.MethodPost, url, body)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 409 on conflict", func() {
		s.mockCommands.EXPECT().Extend(gomock.Any(), view.ID, s.actorID, "renter", gomock.Any()).
			Return(nil, commands.ErrBookingConflict).Times(1)

		rec := s.perform(http.MethodPost, url, body)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 400 on missing new end time", func() {
		rec := s.perform(http.MethodPost, url, map[string]any{})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	view := sampleView()
	url := "/api/bookings/" + view.ID.String() + "/cancel"

	s.Run("success: empty body allowed", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, s.actorID, "renter", gomock.Any()).
			Return(view, nil).Times(1)

		rec := s.perform(http.MethodPost, url, nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: reason forwarded", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, s.actorID, "renter", gomock.Any()).
			Return(view, nil).Times(1)

		rec := s.perform(http.MethodPost, url, map[string]any{"reason": "change of plans"})
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 409 when already finished", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, s.actorID, "renter", gomock.Any()).
			Return(nil, commands.ErrInvalidStateTransition).Times(1)

		rec := s.perform(http.MethodPost, url, nil)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 403 for a stranger", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, s.actorID, "renter", gomock.Any()).
			Return(nil, commands.ErrPermissionDenied).Times(1)

		rec := s.perform(http.MethodPost, url, nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCheckInBooking() {
	view := sampleView()
	url := "/api/bookings/" + view.ID.String() + "/check-in"

	s.Run("success: returns 200", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), view.ID, s.actorID).
			Return(view, nil).Times(1)

		rec := s.perform(http.MethodPost, url, nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 409 outside the window", func() {
		s.mockCommands.EXPECT().CheckIn(gomock.Any(), view.ID, s.actorID).
			Return(nil, commands.ErrCheckInOutsideWindow).Times(1)

		rec := s.perform(http.MethodPost, url, nil)
		s.Equal(http.StatusConflict, rec.Code)
	})
}

// ================================================================================
// GetAvailability / EstimatePrice
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetAvailability() {
	chargerID := uuid.New()
	url := "/api/chargers/" + chargerID.String() + "/availability?date=2025-06-03"

	s.Run("success: returns the slot list", func() {
		day := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
		slots := []queries.SlotView{
			{StartTime: day.Add(6 * time.Hour), EndTime: day.Add(6*time.Hour + 30*time.Minute), Available: true},
		}
		s.mockQueries.EXPECT().AvailabilitySlots(gomock.Any(), chargerID, day, 0).
			Return(slots, nil).Times(1)

		rec := s.perform(http.MethodGet, url, nil)
		s.Equal(http.StatusOK, rec.Code)

		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("2025-06-03", body["date"])
	})

	s.Run("error: 400 on bad date", func() {
		rec := s.perform(http.MethodGet, "/api/chargers/"+chargerID.String()+"/availability?date=03-06-2025", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 400 on past date", func() {
		s.mockQueries.EXPECT().AvailabilitySlots(gomock.Any(), chargerID, gomock.Any(), 0).
			Return(nil, queries.ErrPastDate).Times(1)

		rec := s.perform(http.MethodGet, url, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 on unknown charger", func() {
		s.mockQueries.EXPECT().AvailabilitySlots(gomock.Any(), chargerID, gomock.Any(), 0).
			Return(nil, queries.ErrChargerNotFound).Times(1)

		rec := s.perform(http.MethodGet, url, nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestEstimatePrice() {
	url := "/api/bookings/estimate"
	chargerID := uuid.New()
	start := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	body := map[string]any{
		"charger_id": chargerID.String(),
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(2 * time.Hour).Format(time.RFC3339),
	}

	s.Run("success: returns the estimate", func() {
		est := &queries.EstimateView{
			DurationMinutes: 120,
			Subtotal:        decimal.NewFromInt(200),
			Total:           decimal.NewFromFloat(235.4),
		}
		s.mockQueries.EXPECT().EstimatePrice(gomock.Any(), chargerID, gomock.Any(), gomock.Any()).
			Return(est, nil).Times(1)

		rec := s.perform(http.MethodPost, url, body)
		s.Equal(http.StatusOK, rec.Code)

		var resp map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("235.40", resp["total"])
	})

	s.Run("error: 400 on inverted window", func() {
		s.mockQueries.EXPECT().EstimatePrice(gomock.Any(), chargerID, gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrInvalidWindow).Times(1)

		rec := s.perform(http.MethodPost, url, body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	createBooking "github.com/m04kA/SMC-BayScheduler/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BayScheduler/pkg/logger"
	"github.com/m04kA/SMC-BayScheduler/pkg/ptr"
)

type MockCreateBookingUseCase struct {
	mock.Mock
}

func (m *MockCreateBookingUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

const validBody = `{"locationId":3,"vehicleId":11,"serviceIds":[1,2],"bookingDate":"2025-10-15","startTime":"10:00"}`

func newRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	return req.WithContext(middleware.WithUser(req.Context(), 7, false))
}

func TestHandle_Created(t *testing.T) {
	uc := new(MockCreateBookingUseCase)
	h := NewHandler(uc, logger.NewNop())

	startAt := time.Date(2025, 10, 15, 13, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.UserID == 7 && req.LocationID == 3 && req.StartTime == "10:00" && len(req.ServiceIDs) == 2
	})).Return(&createBooking.Response{
		ID:              99,
		UserID:          7,
		LocationID:      3,
		VehicleID:       11,
		BookingDate:     "2025-10-15",
		StartTime:       "10:00",
		StartAt:         startAt,
		DurationMinutes: 75,
		Bay:             1,
		Status:          string(domain.StatusPending),
		Services: []domain.ServiceItem{
			{ID: 1, Name: "Oil change", AverageDuration: "00:45:00", Price: ptr.Ptr(120.0)},
			{ID: 2, Name: "Tire rotation", AverageDuration: "00:30:00", Price: ptr.Ptr(80.0)},
		},
		TotalPrice: 200,
		CreatedAt:  startAt,
		UpdatedAt:  startAt,
	}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(validBody))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(99), body.ID)
	assert.Equal(t, "10:00", body.StartTime)
	assert.Equal(t, "2025-10-15T13:00:00Z", body.StartAt)
	assert.Equal(t, 75, body.DurationMinutes)
	assert.Len(t, body.Services, 2)
	assert.Equal(t, 200.0, body.TotalPrice)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"locationId":`},
		{"unknown field", `{"userId":7}`},
		{"bad start time", `{"locationId":3,"vehicleId":11,"serviceIds":[1],"bookingDate":"2025-10-15","startTime":"10am"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockCreateBookingUseCase)
			h := NewHandler(uc, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNumberOfCalls(t, "Execute", 0)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"slot taken", createBooking.ErrSlotNotAvailable, http.StatusConflict},
		{"location not found", createBooking.ErrLocationNotFound, http.StatusNotFound},
		{"service not found", createBooking.ErrServiceNotFound, http.StatusNotFound},
		{"vehicle not found", createBooking.ErrVehicleNotFound, http.StatusNotFound},
		{"outside hours", createBooking.ErrOutsideOperatingHours, http.StatusBadRequest},
		{"too late", createBooking.ErrTooLateToBook, http.StatusBadRequest},
		{"bad configuration", createBooking.ErrInvalidConfiguration, http.StatusUnprocessableEntity},
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockCreateBookingUseCase)
			h := NewHandler(uc, logger.NewNop())
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(validBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

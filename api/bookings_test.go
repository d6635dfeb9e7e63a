package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/service/booking"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, *domain.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Get(1).(*domain.Payment), args.Error(2)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id int64) (*domain.Booking, *domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Get(1).(*domain.Payment), args.Error(2)
}

func (m *MockBookingUseCase) ListUserBookings(ctx context.Context, userID int64, limit, offset int) ([]booking.BookingSummary, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]booking.BookingSummary), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	args := m.Called(ctx, bookingID, userID)
	return args.Error(0)
}

func (m *MockBookingUseCase) ExpirePendingBookings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{
		UnitID:    7,
		UserID:    3,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	expiresAt := time.Date(2025, time.March, 1, 12, 15, 0, 0, time.UTC)
	created := &domain.Booking{
		ID:        1,
		UnitID:    7,
		UserID:    3,
		StartDate: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
		Status:    domain.BookingStatusPending,
		ExpiresAt: &expiresAt,
	}
	payment := &domain.Payment{ID: 1, BookingID: 1, AmountCents: 23000, Status: domain.PaymentStatusPending}

	mockService.On("CreateBooking", c.Request.Context(), mock.AnythingOfType("booking.CreateBookingInput")).Return(created, payment, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusPending), response.Status)
	assert.Equal(t, int64(23000), response.TotalCostCents)
	assert.NotNil(t, response.ExpiresAt)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_badDates(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{
		UnitID:    7,
		UserID:    3,
		StartDate: "10.03.2025",
		EndDate:   "2025-03-12",
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_create_conflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{
		UnitID:    7,
		UserID:    3,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), mock.Anything).
		Return(nil, nil, fmt.Errorf("dates overlap an existing booking: %w", domain.ErrConflict))

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("DELETE", "/bookings/5?user_id=3", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	mockService.On("CancelBooking", c.Request.Context(), int64(5), int64(3)).Return(nil)

	handler.cancel(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_forbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("DELETE", "/bookings/5?user_id=8", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	mockService.On("CancelBooking", c.Request.Context(), int64(5), int64(8)).
		Return(fmt.Errorf("you can only cancel your own bookings: %w", domain.ErrForbidden))

	handler.cancel(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingHandler_cancel_missingUserID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("DELETE", "/bookings/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CancelBooking")
}

func TestBookingHandler_get_notFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings/404", nil)
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	mockService.On("GetBooking", c.Request.Context(), int64(404)).
		Return(nil, nil, fmt.Errorf("booking 404: %w", domain.ErrNotFound))

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) CheckAvailability(ctx context.Context, id int64) (*domain.Availability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

func (m *MockFlightUseCase) Reserve(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlightUseCase) Release(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestFlightHandler_availability(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/flights/1/availability", nil)

	av := &domain.Availability{ItemID: 1, Available: true, Capacity: 5, UnitPrice: 100}
	mockService.On("CheckAvailability", c.Request.Context(), int64(1)).Return(av, nil)

	handler.availability(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)

	payload, _ := json.Marshal(response.Data)
	var got domain.Availability
	assert.NoError(t, json.Unmarshal(payload, &got))
	assert.True(t, got.Available)
	assert.Equal(t, 100.0, got.UnitPrice)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_availability_unknownFlight(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest("GET", "/flights/99/availability", nil)

	mockService.On("CheckAvailability", c.Request.Context(), int64(99)).
		Return(nil, &domain.NotFoundError{Resource: "flight", ID: 99})

	handler.availability(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_reserve(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("POST", "/flights/1/reserve", nil)

	mockService.On("Reserve", c.Request.Context(), int64(1)).Return(true, nil)

	handler.reserve(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Seat reserved", response.Message)
	assert.Equal(t, true, response.Data)
}

func TestFlightHandler_reserve_soldOut(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("POST", "/flights/1/reserve", nil)

	mockService.On("Reserve", c.Request.Context(), int64(1)).Return(false, nil)

	handler.reserve(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "No seats available", response.Message)
	assert.Equal(t, false, response.Data)
}

func TestFlightHandler_release(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("POST", "/flights/1/release", nil)

	mockService.On("Release", c.Request.Context(), int64(1)).Return(true, nil)

	handler.release(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Seat released", response.Message)
}

func TestFlightHandler_get_badID(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/flights/abc", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetByID")
}

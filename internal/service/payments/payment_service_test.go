package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePending(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkSettled(ctx context.Context, id int64, status domain.PaymentStatus, transactionID string) (*domain.Payment, error) {
	args := m.Called(ctx, id, status, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListSettledSince(ctx context.Context, since time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type MockBookingStatusUpdater struct {
	mock.Mock
}

func (m *MockBookingStatusUpdater) UpdateStatusForPayment(ctx context.Context, id int64, status domain.BookingStatus, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, id, status, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type stubGateway struct {
	result GatewayResult
	err    error
	calls  int
}

func (g *stubGateway) Authorize(ctx context.Context, req GatewayRequest) (GatewayResult, error) {
	g.calls++
	return g.result, g.err
}

func validPaymentInput() ProcessPaymentInput {
	return ProcessPaymentInput{
		BookingID:     1,
		Amount:        150,
		PaymentMethod: "CREDIT_CARD",
		CardNumber:    "4111111111111111",
		CardHolder:    "John Doe",
		CardExpiry:    "12/27",
	}
}

func newPaymentService(repo *MockPaymentRepository, gw Gateway, bookings *MockBookingStatusUpdater) *PaymentService {
	return NewPaymentService(repo, gw, bookings, zap.NewNop(),
		time.Second, 3, time.Millisecond)
}

func TestPaymentService_ProcessPayment_Authorized(t *testing.T) {
	ctx := context.Background()
	repo := &MockPaymentRepository{}
	bookings := &MockBookingStatusUpdater{}
	gw := &stubGateway{result: GatewayResult{Authorized: true}}

	repo.On("CreatePending", mock.Anything, mock.AnythingOfType("*domain.Payment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).ID = 5
		}).Return(nil).Once()

	var capturedTxn string
	repo.On("MarkSettled", mock.Anything, int64(5), domain.PaymentStatusSuccess, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			capturedTxn = args.String(3)
		}).
		Return(&domain.Payment{ID: 5, BookingID: 1, Amount: 150, Status: domain.PaymentStatusSuccess, TransactionID: "TXN-1234567890AB"}, nil).Once()
	bookings.On("UpdateStatusForPayment", mock.Anything, int64(1), domain.BookingStatusConfirmed, "TXN-1234567890AB").
		Return(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}, nil).Once()

	payment, err := newPaymentService(repo, gw, bookings).ProcessPayment(ctx, validPaymentInput())

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)
	assert.Contains(t, capturedTxn, "TXN-")
	assert.Len(t, capturedTxn, 16)
	assert.Equal(t, 1, gw.calls)

	repo.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_Declined(t *testing.T) {
	ctx := context.Background()
	repo := &MockPaymentRepository{}
	bookings := &MockBookingStatusUpdater{}
	gw := &stubGateway{result: GatewayResult{Authorized: false, Reason: "payment declined by gateway"}}

	repo.On("CreatePending", mock.Anything, mock.AnythingOfType("*domain.Payment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).ID = 6
		}).Return(nil).Once()
	repo.On("MarkSettled", mock.Anything, int64(6), domain.PaymentStatusFailed, "").
		Return(&domain.Payment{ID: 6, BookingID: 1, Status: domain.PaymentStatusFailed}, nil).Once()
	bookings.On("UpdateStatusForPayment", mock.Anything, int64(1), domain.BookingStatusFailed, "PMT-6").
		Return(&domain.Booking{ID: 1, Status: domain.BookingStatusFailed}, nil).Once()

	payment, err := newPaymentService(repo, gw, bookings).ProcessPayment(ctx, validPaymentInput())

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	assert.Empty(t, payment.TransactionID)
	bookings.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_GatewayErrorTreatedAsDeclined(t *testing.T) {
	ctx := context.Background()
	repo := &MockPaymentRepository{}
	bookings := &MockBookingStatusUpdater{}
	gw := &stubGateway{err: context.DeadlineExceeded}

	repo.On("CreatePending", mock.Anything, mock.AnythingOfType("*domain.Payment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).ID = 7
		}).Return(nil).Once()
	repo.On("MarkSettled", mock.Anything, int64(7), domain.PaymentStatusFailed, "").
		Return(&domain.Payment{ID: 7, BookingID: 1, Status: domain.PaymentStatusFailed}, nil).Once()
	bookings.On("UpdateStatusForPayment", mock.Anything, int64(1), domain.BookingStatusFailed, "PMT-7").
		Return(&domain.Booking{ID: 1, Status: domain.BookingStatusFailed}, nil).Once()

	payment, err := newPaymentService(repo, gw, bookings).ProcessPayment(ctx, validPaymentInput())

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	repo.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_CallbackRetriedUntilSuccess(t *testing.T) {
	ctx := context.Background()
	repo := &MockPaymentRepository{}
	bookings := &MockBookingStatusUpdater{}
	gw := &stubGateway{result: GatewayResult{Authorized: true}}

	repo.On("CreatePending", mock.Anything, mock.AnythingOfType("*domain.Payment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).ID = 8
		}).Return(nil).Once()
	repo.On("MarkSettled", mock.Anything, int64(8), domain.PaymentStatusSuccess, mock.AnythingOfType("string")).
		Return(&domain.Payment{ID: 8, BookingID: 1, Status: domain.PaymentStatusSuccess, TransactionID: "TXN-AAAABBBBCCCC"}, nil).Once()
	bookings.On("UpdateStatusForPayment", mock.Anything, int64(1), domain.BookingStatusConfirmed, "TXN-AAAABBBBCCCC").
		Return(nil, errors.New("booking service unavailable")).Twice()
	bookings.On("UpdateStatusForPayment", mock.Anything, int64(1), domain.BookingStatusConfirmed, "TXN-AAAABBBBCCCC").
		Return(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}, nil).Once()

	payment, err := newPaymentService(repo, gw, bookings).ProcessPayment(ctx, validPaymentInput())

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)
	bookings.AssertNumberOfCalls(t, "UpdateStatusForPayment", 3)
}

func TestPaymentService_ProcessPayment_CallbackExhaustionDoesNotFailPayment(t *testing.T) {
	ctx := context.Background()
	repo := &MockPaymentRepository{}
	bookings := &MockBookingStatusUpdater{}
	gw := &stubGateway{result: GatewayResult{Authorized: true}}

	repo.On("CreatePending", mock.Anything, mock.AnythingOfType("*domain.Payment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).ID = 9
		}).Return(nil).Once()
	repo.On("MarkSettled", mock.Anything, int64(9), domain.PaymentStatusSuccess, mock.AnythingOfType("string")).
		Return(&domain.Payment{ID: 9, BookingID: 1, Status: domain.PaymentStatusSuccess, TransactionID: "TXN-AAAABBBBCCCC"}, nil).Once()
	bookings.On("UpdateStatusForPayment", mock.Anything, int64(1), domain.BookingStatusConfirmed, "TXN-AAAABBBBCCCC").
		Return(nil, errors.New("booking service unavailable")).Times(3)

	payment, err := newPaymentService(repo, gw, bookings).ProcessPayment(ctx, validPaymentInput())

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)
	bookings.AssertNumberOfCalls(t, "UpdateStatusForPayment", 3)
}

func TestPaymentService_ProcessPayment_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	repo := &MockPaymentRepository{}
	service := newPaymentService(repo, &stubGateway{}, &MockBookingStatusUpdater{})

	testCases := []struct {
		name   string
		mutate func(*ProcessPaymentInput)
	}{
		{"missing booking", func(in *ProcessPaymentInput) { in.BookingID = 0 }},
		{"non-positive amount", func(in *ProcessPaymentInput) { in.Amount = -10 }},
		{"missing method", func(in *ProcessPaymentInput) { in.PaymentMethod = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validPaymentInput()
			tc.mutate(&input)

			payment, err := service.ProcessPayment(ctx, input)
			assert.Error(t, err)
			assert.Nil(t, payment)

			var validation *domain.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
	repo.AssertNotCalled(t, "CreatePending")
}

func TestSimulatedGateway_AlwaysApprovesAtFullRate(t *testing.T) {
	gw := NewSimulatedGateway(0, 1.0, 1)
	for i := 0; i < 20; i++ {
		result, err := gw.Authorize(context.Background(), GatewayRequest{BookingID: 1, Amount: 150})
		assert.NoError(t, err)
		assert.True(t, result.Authorized)
	}
}

func TestSimulatedGateway_AlwaysDeclinesAtZeroRate(t *testing.T) {
	gw := NewSimulatedGateway(0, 0, 1)
	result, err := gw.Authorize(context.Background(), GatewayRequest{BookingID: 1, Amount: 150})
	assert.NoError(t, err)
	assert.False(t, result.Authorized)
	assert.Equal(t, "payment declined by gateway", result.Reason)
}

func TestSimulatedGateway_RespectsContextCancellation(t *testing.T) {
	gw := NewSimulatedGateway(time.Minute, 1.0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := gw.Authorize(ctx, GatewayRequest{BookingID: 1, Amount: 150})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

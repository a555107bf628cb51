package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	CreatePending(ctx context.Context, payment *domain.Payment) error
	// MarkSettled moves a PENDING payment to its terminal status. The
	// transaction id is empty for failures.
	MarkSettled(ctx context.Context, id int64, status domain.PaymentStatus, transactionID string) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	// ListSettledSince returns payments that reached a terminal status after
	// the given time. Used by the reconciliation sweep.
	ListSettledSince(ctx context.Context, since time.Time) ([]domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount, payment_method, status, COALESCE(transaction_id, ''), created_at, updated_at`

func (r *PGPaymentRepository) CreatePending(ctx context.Context, payment *domain.Payment) error {
	payment.Status = domain.PaymentStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO payments (booking_id, amount, payment_method, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		payment.BookingID, payment.Amount, payment.PaymentMethod, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *PGPaymentRepository) MarkSettled(ctx context.Context, id int64, status domain.PaymentStatus, transactionID string) (*domain.Payment, error) {
	var txn *string
	if transactionID != "" {
		txn = &transactionID
	}
	row := r.db.QueryRow(ctx, `UPDATE payments SET status=$1, transaction_id=$2, updated_at=now()
		WHERE id=$3 AND status=$4
		RETURNING `+paymentColumns, status, txn, id, domain.PaymentStatusPending)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.BusinessRuleError{Reason: "payment is not pending"}
		}
		return nil, err
	}
	return p, nil
}

func (r *PGPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "payment", ID: id}
		}
		return nil, err
	}
	return p, nil
}

func (r *PGPaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id=$1 ORDER BY created_at DESC LIMIT 1`, bookingID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "payment for booking", ID: bookingID}
		}
		return nil, err
	}
	return p, nil
}

func (r *PGPaymentRepository) ListSettledSince(ctx context.Context, since time.Time) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payments
		WHERE status IN ($1, $2) AND updated_at >= $3 ORDER BY updated_at`,
		domain.PaymentStatusSuccess, domain.PaymentStatusFailed, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.BookingID, &p.Amount, &p.PaymentMethod, &p.Status, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)

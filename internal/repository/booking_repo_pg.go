package repository

import (
	"context"
	"errors"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateReference signals a booking reference collision. The caller
// regenerates the reference and retries the insert.
var ErrDuplicateReference = errors.New("booking reference already exists")

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUserID(ctx context.Context, userID int64) ([]domain.Booking, error)
	// UpdateStatus serializes concurrent transitions for the same booking
	// with a row lock. The bool reports whether an actual transition
	// happened (false for an idempotent repeat of the current status).
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, flight_id, hotel_id, travel_date, total_cost, status, booking_reference, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	booking.Status = domain.BookingStatusPending
	err := r.db.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, hotel_id, travel_date, total_cost, status, booking_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.FlightID, booking.HotelID, booking.TravelDate, booking.TotalCost, booking.Status, booking.BookingReference).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "booking", ID: id}
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
	current, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, &domain.NotFoundError{Resource: "booking", ID: id}
		}
		return nil, false, err
	}

	if current.Status == status {
		return current, false, tx.Commit(ctx)
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, false, &domain.BusinessRuleError{
			Reason: "invalid status transition from " + string(current.Status) + " to " + string(status),
		}
	}

	row = tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, status, id)
	updated, err := scanBooking(row)
	if err != nil {
		return nil, false, err
	}
	return updated, true, tx.Commit(ctx)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.HotelID, &b.TravelDate, &b.TotalCost, &b.Status, &b.BookingReference, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)

package repository

import (
	"context"
	"errors"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	// ReserveSeat tests available_seats > 0 and decrements in one atomic
	// statement. Returns false without side effect when no capacity remains.
	ReserveSeat(ctx context.Context, id int64) (bool, error)
	// ReleaseSeat increments available seats, bounded by total capacity.
	ReleaseSeat(ctx context.Context, id int64) (bool, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, origin, destination, departure_time, arrival_time, price, total_seats, available_seats, active, created_at, updated_at`

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.Price, &f.TotalSeats, &f.AvailableSeats, &f.Active, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "flight", ID: id}
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) ReserveSeat(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats = available_seats - 1, updated_at = now() WHERE id=$1 AND available_seats > 0`, id)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() == 0 {
		return false, r.ensureExists(ctx, id)
	}
	return true, nil
}

func (r *PGFlightRepository) ReleaseSeat(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats = available_seats + 1, updated_at = now() WHERE id=$1 AND available_seats < total_seats`, id)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() == 0 {
		return false, r.ensureExists(ctx, id)
	}
	return true, nil
}

func (r *PGFlightRepository) ensureExists(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return &domain.NotFoundError{Resource: "flight", ID: id}
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)

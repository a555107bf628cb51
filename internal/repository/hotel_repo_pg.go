package repository

import (
	"context"
	"errors"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HotelRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	ReserveRoom(ctx context.Context, id int64) (bool, error)
	ReleaseRoom(ctx context.Context, id int64) (bool, error)
}

type PGHotelRepository struct {
	db *pgxpool.Pool
}

func NewHotelRepository(db *pgxpool.Pool) HotelRepository {
	return &PGHotelRepository{db: db}
}

const hotelColumns = `id, name, location, price_per_night, total_rooms, available_rooms, active, created_at, updated_at`

func (r *PGHotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id=$1`, id)
	var h domain.Hotel
	if err := row.Scan(&h.ID, &h.Name, &h.Location, &h.PricePerNight, &h.TotalRooms, &h.AvailableRooms, &h.Active, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "hotel", ID: id}
		}
		return nil, err
	}
	return &h, nil
}

func (r *PGHotelRepository) ReserveRoom(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.Exec(ctx, `UPDATE hotels SET available_rooms = available_rooms - 1, updated_at = now() WHERE id=$1 AND available_rooms > 0`, id)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() == 0 {
		return false, r.ensureExists(ctx, id)
	}
	return true, nil
}

func (r *PGHotelRepository) ReleaseRoom(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.Exec(ctx, `UPDATE hotels SET available_rooms = available_rooms + 1, updated_at = now() WHERE id=$1 AND available_rooms < total_rooms`, id)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() == 0 {
		return false, r.ensureExists(ctx, id)
	}
	return true, nil
}

func (r *PGHotelRepository) ensureExists(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM hotels WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return &domain.NotFoundError{Resource: "hotel", ID: id}
	}
	return nil
}

var _ HotelRepository = (*PGHotelRepository)(nil)

package flights

import (
	"context"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/repository"
	"go.uber.org/zap"
)

const cacheKind = "flight"

type FlightUseCase interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	CheckAvailability(ctx context.Context, id int64) (*domain.Availability, error)
	Reserve(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) (bool, error)
}

type Cache interface {
	GetAvailability(ctx context.Context, kind string, id int64) (*domain.Availability, error)
	SetAvailability(ctx context.Context, kind string, id int64, av *domain.Availability) error
	InvalidateAvailability(ctx context.Context, kind string, id int64) error
}

type FlightService struct {
	repo   repository.FlightRepository
	cache  Cache
	logger *zap.Logger
}

func NewFlightService(repo repository.FlightRepository, cache Cache, logger *zap.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, logger: logger}
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) CheckAvailability(ctx context.Context, id int64) (*domain.Availability, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAvailability(ctx, cacheKind, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	av := &domain.Availability{ItemID: flight.ID, Capacity: flight.AvailableSeats, UnitPrice: flight.Price}
	switch {
	case !flight.Active:
		av.Reason = "Flight is inactive"
	case flight.AvailableSeats <= 0:
		av.Reason = "No seats available"
	default:
		av.Available = true
	}

	if s.cache != nil {
		_ = s.cache.SetAvailability(ctx, cacheKind, id, av)
	}
	return av, nil
}

func (s *FlightService) Reserve(ctx context.Context, id int64) (bool, error) {
	reserved, err := s.repo.ReserveSeat(ctx, id)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateAvailability(ctx, cacheKind, id)
	}
	if reserved {
		s.logger.Info("reserved flight seat", zap.Int64("flight_id", id))
	}
	return reserved, nil
}

func (s *FlightService) Release(ctx context.Context, id int64) (bool, error) {
	released, err := s.repo.ReleaseSeat(ctx, id)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateAvailability(ctx, cacheKind, id)
	}
	if released {
		s.logger.Info("released flight seat", zap.Int64("flight_id", id))
	}
	return released, nil
}

var _ FlightUseCase = (*FlightService)(nil)

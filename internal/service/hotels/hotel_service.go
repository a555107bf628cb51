package hotels

import (
	"context"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/repository"
	"go.uber.org/zap"
)

const cacheKind = "hotel"

type HotelUseCase interface {
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	CheckAvailability(ctx context.Context, id int64) (*domain.Availability, error)
	Reserve(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) (bool, error)
}

type Cache interface {
	GetAvailability(ctx context.Context, kind string, id int64) (*domain.Availability, error)
	SetAvailability(ctx context.Context, kind string, id int64, av *domain.Availability) error
	InvalidateAvailability(ctx context.Context, kind string, id int64) error
}

type HotelService struct {
	repo   repository.HotelRepository
	cache  Cache
	logger *zap.Logger
}

func NewHotelService(repo repository.HotelRepository, cache Cache, logger *zap.Logger) *HotelService {
	return &HotelService{repo: repo, cache: cache, logger: logger}
}

func (s *HotelService) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *HotelService) CheckAvailability(ctx context.Context, id int64) (*domain.Availability, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAvailability(ctx, cacheKind, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	hotel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	av := &domain.Availability{ItemID: hotel.ID, Capacity: hotel.AvailableRooms, UnitPrice: hotel.PricePerNight}
	switch {
	case !hotel.Active:
		av.Reason = "Hotel is inactive"
	case hotel.AvailableRooms <= 0:
		av.Reason = "No rooms available"
	default:
		av.Available = true
	}

	if s.cache != nil {
		_ = s.cache.SetAvailability(ctx, cacheKind, id, av)
	}
	return av, nil
}

func (s *HotelService) Reserve(ctx context.Context, id int64) (bool, error) {
	reserved, err := s.repo.ReserveRoom(ctx, id)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateAvailability(ctx, cacheKind, id)
	}
	if reserved {
		s.logger.Info("reserved hotel room", zap.Int64("hotel_id", id))
	}
	return reserved, nil
}

func (s *HotelService) Release(ctx context.Context, id int64) (bool, error) {
	released, err := s.repo.ReleaseRoom(ctx, id)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateAvailability(ctx, cacheKind, id)
	}
	if released {
		s.logger.Info("released hotel room", zap.Int64("hotel_id", id))
	}
	return released, nil
}

var _ HotelUseCase = (*HotelService)(nil)

package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}

	assert.NotNil(t, NewBookingRepository(pool))
	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewHotelRepository(pool))
	assert.NotNil(t, NewUserRepository(pool))
	assert.NotNil(t, NewPaymentRepository(pool))
	assert.NotNil(t, NewNotificationRepository(pool))
}

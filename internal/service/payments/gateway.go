package payments

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// GatewayRequest carries what the external payment gateway needs to
// authorize a charge. Card details never touch persistence.
type GatewayRequest struct {
	BookingID  int64
	Amount     float64
	Method     string
	CardNumber string
	CardHolder string
	CardExpiry string
}

type GatewayResult struct {
	Authorized bool
	Reason     string
}

// Gateway authorizes payments. Injected so tests can force deterministic
// outcomes instead of relying on randomness.
type Gateway interface {
	Authorize(ctx context.Context, req GatewayRequest) (GatewayResult, error)
}

// SimulatedGateway models a real gateway: network latency followed by a
// probabilistic authorization outcome (0.9 by default in production config).
type SimulatedGateway struct {
	latency     time.Duration
	successRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulatedGateway(latency time.Duration, successRate float64, seed int64) *SimulatedGateway {
	return &SimulatedGateway{
		latency:     latency,
		successRate: successRate,
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

func (g *SimulatedGateway) Authorize(ctx context.Context, req GatewayRequest) (GatewayResult, error) {
	select {
	case <-ctx.Done():
		return GatewayResult{}, ctx.Err()
	case <-time.After(g.latency):
	}

	g.mu.Lock()
	draw := g.rnd.Float64()
	g.mu.Unlock()

	if draw < g.successRate {
		return GatewayResult{Authorized: true}, nil
	}
	return GatewayResult{Authorized: false, Reason: "payment declined by gateway"}, nil
}

var _ Gateway = (*SimulatedGateway)(nil)

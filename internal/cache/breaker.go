package cache

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type BreakerConfig struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		Name:                "cache",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

type getResult struct {
	value      []byte
	generation uint64
}

// BreakerStore short-circuits a failing Store so reads fall straight through
// to the source of truth instead of waiting on a dead backend.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerStore(next Store, cfg *BreakerConfig, log logger.ZapLogger) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, uint64, error) {
	res, err := b.cb.Execute(func() (any, error) {
		v, gen, err := b.next.Get(ctx, key)
		return getResult{value: v, generation: gen}, err
	})
	r, _ := res.(getResult)
	return r.value, r.generation, err
}

func (b *BreakerStore) SetIfGeneration(ctx context.Context, key string, value []byte, generation uint64, ttl time.Duration) (bool, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.next.SetIfGeneration(ctx, key, value, generation, ttl)
	})
	ok, _ := res.(bool)
	return ok, err
}

func (b *BreakerStore) Invalidate(ctx context.Context, keys ...string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.Invalidate(ctx, keys...)
	})
	return err
}

func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	"go.uber.org/zap"
)

type LayerConfig struct {
	TTLs             TTLs
	PopulateWorkers  int
	OperationTimeout time.Duration
}

// Layer is the read-through cache. A nil *Layer reads straight from the loader.
type Layer struct {
	store     Store
	ttls      TTLs
	opTimeout time.Duration
	logger    logger.ZapLogger
	metrics   *metrics.Metrics
	sem       chan struct{}
	wg        sync.WaitGroup
}

func NewLayer(store Store, cfg *LayerConfig, log logger.ZapLogger, m *metrics.Metrics) *Layer {
	workers := cfg.PopulateWorkers
	if workers <= 0 {
		workers = 1
	}
	timeout := cfg.OperationTimeout
	if timeout <= 0 {
		timeout = 200 * time.Millisecond
	}
	return &Layer{
		store:     store,
		ttls:      cfg.TTLs,
		opTimeout: timeout,
		logger:    log,
		metrics:   m,
		sem:       make(chan struct{}, workers),
	}
}

// Fetch returns the cached value for key or loads it. Cache failures never
// surface; they only cost a direct read.
func Fetch[T any](ctx context.Context, l *Layer, key string, class Class, load func(context.Context) (T, error)) (T, error) {
	if l == nil {
		return load(ctx)
	}

	getCtx, cancel := context.WithTimeout(ctx, l.opTimeout)
	raw, gen, err := l.store.Get(getCtx, key)
	cancel()

	switch {
	case err == nil:
		var v T
		if uerr := json.Unmarshal(raw, &v); uerr == nil {
			l.metrics.RecordCacheRequest(string(class), "hit")
			return v, nil
		}
		l.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
		l.metrics.RecordCacheRequest(string(class), "error")
		go l.invalidateQuietly(key)
		return load(ctx)
	case errors.Is(err, ErrCacheMiss):
		l.metrics.RecordCacheRequest(string(class), "miss")
	default:
		l.logger.Warn("Cache read failed, reading from source", zap.String("key", key), zap.Error(err))
		l.metrics.RecordCacheRequest(string(class), "error")
		return load(ctx)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	l.populate(key, class, v, gen)
	return v, nil
}

func (l *Layer) populate(key string, class Class, v any, gen uint64) {
	raw, err := json.Marshal(v)
	if err != nil {
		l.logger.Warn("Failed to encode cache value", zap.String("key", key), zap.Error(err))
		return
	}

	select {
	case l.sem <- struct{}{}:
	default:
		l.metrics.RecordCacheRequest(string(class), "populate_skipped")
		return
	}

	ttl := l.ttls.For(class)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer func() { <-l.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), l.opTimeout)
		defer cancel()
		ok, err := l.store.SetIfGeneration(ctx, key, raw, gen, ttl)
		if err != nil {
			l.logger.Debug("Cache populate failed", zap.String("key", key), zap.Error(err))
			return
		}
		if !ok {
			l.logger.Debug("Cache populate skipped, key changed since read", zap.String("key", key))
		}
	}()
}

// Invalidate removes keys immediately. The caller decides whether the error
// matters.
func (l *Layer) Invalidate(ctx context.Context, keys ...string) error {
	if l == nil || len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()
	if err := l.store.Invalidate(ctx, keys...); err != nil {
		return err
	}
	l.metrics.RecordInvalidation(len(keys))
	return nil
}

func (l *Layer) invalidateQuietly(key string) {
	if err := l.Invalidate(context.Background(), key); err != nil {
		l.logger.Debug("Cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// Wait blocks until in-flight background populations finish.
func (l *Layer) Wait() {
	if l == nil {
		return
	}
	l.wg.Wait()
}

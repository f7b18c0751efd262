// Package health reports dependency reachability over gRPC and HTTP.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service key for the inventory service.
const ServiceName = "omnipos.inventory.v1.InventoryService"

// Check pings one dependency.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Checker runs its checks periodically and mirrors the result into a gRPC
// health server.
type Checker struct {
	checks   []Check
	interval time.Duration
	timeout  time.Duration
	server   *health.Server
	logger   logger.ZapLogger

	mu   sync.RWMutex
	last Status
}

func NewChecker(server *health.Server, interval time.Duration, log logger.ZapLogger, checks ...Check) *Checker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Checker{
		checks:   checks,
		interval: interval,
		timeout:  2 * time.Second,
		server:   server,
		logger:   log,
		last:     Status{Status: "UNKNOWN", Checks: map[string]string{}},
	}
}

// Run checks immediately and then every interval until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.CheckNow(ctx)
	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.CheckNow(ctx)
		}
	}
}

func (c *Checker) CheckNow(ctx context.Context) Status {
	st := Status{Status: "SERVING", Checks: make(map[string]string, len(c.checks))}
	for _, check := range c.checks {
		pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := check.Ping(pingCtx)
		cancel()
		if err != nil {
			st.Status = "NOT_SERVING"
			st.Checks[check.Name] = err.Error()
			continue
		}
		st.Checks[check.Name] = "ok"
	}

	c.mu.Lock()
	changed := c.last.Status != st.Status
	c.last = st
	c.mu.Unlock()

	serving := healthpb.HealthCheckResponse_SERVING
	if st.Status != "SERVING" {
		serving = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", serving)
	c.server.SetServingStatus(ServiceName, serving)

	if changed {
		c.logger.Info("Health status changed", zap.String("status", st.Status), zap.Any("checks", st.Checks))
	}
	return st
}

func (c *Checker) Last() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Handler serves the last result; 503 unless serving.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := c.Last()
		code := http.StatusOK
		if st.Status != "SERVING" {
			code = http.StatusServiceUnavailable
		}
		response.JSON(w, code, st)
	}
}

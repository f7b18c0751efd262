package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New(DefaultConfig())

	m.RecordMovement("STOCK_IN", "success", 5*time.Millisecond)
	m.RecordMovement("STOCK_IN", "success", 5*time.Millisecond)
	m.RecordVersionConflict(true)
	m.RecordCacheRequest("inventory", "hit")
	m.RecordRequeue("cache-invalidator")
	m.SetQueueDepth("kafka", 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MovementsTotal.WithLabelValues("STOCK_IN", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VersionConflicts.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequestsTotal.WithLabelValues("inventory", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsRequeued.WithLabelValues("cache-invalidator")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.SubscriberQueueDepth.WithLabelValues("kafka")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordMovement("STOCK_OUT", "rejected", time.Millisecond)
		m.RecordDelivery("x", "failure")
		m.RecordInvalidation(3)
	})
}

func TestHandler(t *testing.T) {
	m := New(DefaultConfig())
	m.RecordHTTPRequest(http.MethodGet, "/api/inventory", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "omnipos_inventory_http_requests_total")
}

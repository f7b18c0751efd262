package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu      sync.Mutex
	docs    map[string]json.RawMessage
	indices map[string]bool
	fail    bool
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	if f.fail {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
		return
	}

	switch {
	case r.Method == http.MethodHead:
		if f.indices[r.URL.Path[1:]] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && !containsDoc(r.URL.Path):
		f.indices[r.URL.Path[1:]] = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	default:
		body, _ := io.ReadAll(r.Body)
		f.docs[r.URL.Path] = body
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}
}

func (f *fakeES) hasIndex(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indices[name]
}

func (f *fakeES) snapshot() map[string]json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]json.RawMessage, len(f.docs))
	for k, v := range f.docs {
		out[k] = v
	}
	return out
}

func (f *fakeES) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func containsDoc(path string) bool {
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			return true
		}
	}
	return false
}

func newFakeClient(t *testing.T) (*Client, *fakeES) {
	fake := &fakeES{docs: map[string]json.RawMessage{}, indices: map[string]bool{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client, fake
}

func TestAuditIndexer_IndexesByEventID(t *testing.T) {
	client, fake := newFakeClient(t)
	indexer := NewAuditIndexer(client, "inventory-transactions")
	ctx := context.Background()

	require.NoError(t, indexer.EnsureIndex(ctx))
	assert.True(t, fake.hasIndex("inventory-transactions"))

	ev := model.InventoryEvent{EventID: "evt-9", Type: model.TransactionStockIn, StoreID: 1, ProductID: 1, Quantity: 25, ResultingQuantity: 25}
	require.NoError(t, indexer.Handle(ctx, ev))
	require.NoError(t, indexer.Handle(ctx, ev))

	docs := fake.snapshot()
	require.Len(t, docs, 1)
	raw, ok := docs["/inventory-transactions/_doc/evt-9"]
	require.True(t, ok)

	var got model.InventoryEvent
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, int64(25), got.ResultingQuantity)
}

func TestAuditIndexer_EnsureIndexIsIdempotent(t *testing.T) {
	client, _ := newFakeClient(t)
	indexer := NewAuditIndexer(client, "inventory-transactions")

	require.NoError(t, indexer.EnsureIndex(context.Background()))
	require.NoError(t, indexer.EnsureIndex(context.Background()))
}

func TestAuditIndexer_ErrorStatus(t *testing.T) {
	client, fake := newFakeClient(t)
	fake.setFail(true)

	err := NewAuditIndexer(client, "inventory-transactions").Handle(context.Background(), model.InventoryEvent{EventID: "evt-1"})
	assert.Error(t, err)
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/store/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/store/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestStoreHandler(t *testing.T) {
	repo := repository.NewMemoryRepository(model.Store{ID: 1, Name: "Downtown Flagship", Location: "Jakarta Pusat", Status: "ACTIVE"})
	h := NewStoreHandler(usecase.NewStoreUseCase(repo, nil, logger.NewNop()), logger.NewNop())
	r := chi.NewRouter()
	h.Register(r)

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/stores", http.StatusOK, `"location":"Jakarta Pusat"`},
		{"/stores/1", http.StatusOK, `"name":"Downtown Flagship"`},
		{"/stores/7", http.StatusNotFound, `"error":"store not found"`},
		{"/stores/x", http.StatusBadRequest, `"error":"invalid store"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

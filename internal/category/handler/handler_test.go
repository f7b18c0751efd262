package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/catalog"
	"github.com/fekuna/omnipos-inventory-service/internal/category/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/category/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	productrepo "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestCategoryHandler(t *testing.T) {
	products := productrepo.NewMemoryRepository(catalog.SeedProducts()...)
	uc := usecase.NewCategoryUseCase(repository.NewMemoryRepository(products), nil, logger.NewNop())
	r := chi.NewRouter()
	NewCategoryHandler(uc, logger.NewNop()).Register(r)

	tests := []struct {
		name     string
		path     string
		status   int
		contains string
	}{
		{"all", "/categories", http.StatusOK, `"name":"Coffee","productCount":1`},
		{"filtered out", "/categories?minProducts=2", http.StatusOK, `[]`},
		{"bad filter", "/categories?minProducts=x", http.StatusBadRequest, `"error":"invalid minProducts"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/category"
	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Register(r chi.Router) {
	r.Get("/categories", h.ListCategories)
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	filters := &dto.CategoryFilters{}
	if v := r.URL.Query().Get("minProducts"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.Error(w, h.logger, apperror.Validation("invalid minProducts"))
			return
		}
		filters.MinProducts = n
	}

	categories, err := h.uc.ListCategories(r.Context(), filters)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, categories)
}

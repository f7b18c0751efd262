package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Post("/stock-in", h.movement(h.uc.StockIn))
		r.Post("/stock-out", h.movement(h.uc.StockOut))
		r.Post("/reserve", h.movement(h.uc.Reserve))
		r.Post("/release", h.movement(h.uc.Release))
		r.Post("/adjust", h.Adjust)
		r.Post("/transfer", h.Transfer)

		r.Get("/", h.ListAll)
		r.Get("/low-stock", h.LowStock)
		r.Get("/store/{storeId}", h.ListByStore)
		r.Get("/store/{storeId}/product/{productId}", h.GetItem)
		r.Get("/product/{productId}", h.ListByProduct)
	})
}

type movementFunc func(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error)

func (h *InventoryHandler) movement(fn movementFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input dto.MovementInput
		if err := response.Bind(r, &input); err != nil {
			response.Error(w, h.logger, err)
			return
		}

		res, err := fn(r.Context(), &input)
		if err != nil {
			response.Error(w, h.logger, err)
			return
		}
		response.JSON(w, http.StatusOK, res)
	}
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var input dto.AdjustInput
	if err := response.Bind(r, &input); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	res, err := h.uc.Adjust(r.Context(), &input)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Transfer answers 400 whenever nothing is left half-applied, including an
// inbound leg that was compensated. An exhausted conflict on the outbound leg
// is 409 like any other movement; a failed compensation is 5xx.
func (h *InventoryHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var input dto.TransferInput
	if err := response.Bind(r, &input); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	res, err := h.uc.Transfer(r.Context(), &input)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, res)
}

func (h *InventoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.ListAll(r.Context())
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeId"), 10, 64)
	if err != nil {
		response.Error(w, h.logger, apperror.InvalidStore())
		return
	}

	items, err := h.uc.ListByStore(r.Context(), storeID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		response.Error(w, h.logger, apperror.InvalidProduct())
		return
	}

	items, err := h.uc.ListByProduct(r.Context(), productID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeId"), 10, 64)
	if err != nil {
		response.Error(w, h.logger, apperror.InvalidStore())
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		response.Error(w, h.logger, apperror.InvalidProduct())
		return
	}

	item, err := h.uc.GetItem(r.Context(), storeID, productID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	var threshold int64
	if v := r.URL.Query().Get("threshold"); v != "" {
		t, err := strconv.ParseInt(v, 10, 64)
		if err != nil || t < 0 {
			response.Error(w, h.logger, apperror.Validation("invalid threshold"))
			return
		}
		threshold = t
	}

	items, err := h.uc.LowStock(r.Context(), threshold)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

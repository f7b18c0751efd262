package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/response"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/go-chi/chi/v5"
)

type TransactionHandler struct {
	uc     transaction.UseCase
	logger logger.ZapLogger
}

func NewTransactionHandler(uc transaction.UseCase, log logger.ZapLogger) *TransactionHandler {
	return &TransactionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransactionHandler) Register(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.ListTransactions)
		r.Get("/recent", h.RecentTransactions)
		r.Get("/type/{type}", h.TransactionsByType)
		r.Get("/store/{id}", h.TransactionsByStore)
		r.Get("/product/{id}", h.TransactionsByProduct)
		r.Get("/reference/{ref}", h.TransactionsByReference)
		r.Get("/{id}", h.GetTransaction)
	})
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	items, err := h.uc.List(r.Context(), filters)
	h.write(w, items, err)
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

func (h *TransactionHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	items, err := h.uc.Recent(r.Context(), limit)
	h.write(w, items, err)
}

func (h *TransactionHandler) TransactionsByType(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	typ := model.TransactionType(chi.URLParam(r, "type"))
	items, err := h.uc.ByType(r.Context(), typ, limit)
	h.write(w, items, err)
}

func (h *TransactionHandler) TransactionsByStore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, h.logger, apperror.InvalidStore())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	items, err := h.uc.ByStore(r.Context(), id, limit)
	h.write(w, items, err)
}

func (h *TransactionHandler) TransactionsByProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, h.logger, apperror.InvalidProduct())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	items, err := h.uc.ByProduct(r.Context(), id, limit)
	h.write(w, items, err)
}

func (h *TransactionHandler) TransactionsByReference(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.ByReference(r.Context(), chi.URLParam(r, "ref"))
	h.write(w, items, err)
}

func (h *TransactionHandler) write(w http.ResponseWriter, items []model.Transaction, err error) {
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func parseLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 0 {
		return 0, apperror.Validation("invalid limit")
	}
	return limit, nil
}

func parseFilters(r *http.Request) (*dto.TransactionFilters, error) {
	q := r.URL.Query()
	f := &dto.TransactionFilters{
		ReferenceID: q.Get("referenceId"),
	}

	if v := q.Get("type"); v != "" {
		f.Type = model.TransactionType(v)
		if !f.Type.Valid() {
			return nil, apperror.Validation("invalid transaction type")
		}
	}
	if v := q.Get("storeId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, apperror.InvalidStore()
		}
		f.StoreID = id
	}
	if v := q.Get("productId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, apperror.InvalidProduct()
		}
		f.ProductID = id
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apperror.Validation("invalid " + p.name + ", expected RFC3339")
		}
		*p.dst = &ts
	}

	limit, err := parseLimit(r)
	if err != nil {
		return nil, err
	}
	f.Limit = limit
	return f, nil
}

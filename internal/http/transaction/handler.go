package transaction

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/http/auth"
	"github.com/MrJamesThe3rd/dindin/internal/http/respond"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type transactionRequest struct {
	AccountID    int64           `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Description  string          `json:"description"`
	Responsible  string          `json:"responsible"`
	CategoryID   int64           `json:"category_id"`
	CreationDate *time.Time      `json:"creation_date"`
}

func (req transactionRequest) toLedger() ledger.Transaction {
	tx := ledger.Transaction{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
		Responsible: req.Responsible,
		Type:        ledger.Type(req.Type),
	}

	// Legacy form tags are accepted here; anything else fails validation.
	if t, err := ledger.ParseType(req.Type); err == nil {
		tx.Type = t
	}

	if req.CategoryID != 0 {
		tx.Category = &ledger.Category{ID: req.CategoryID}
	}

	if req.CreationDate != nil {
		tx.CreationDate = *req.CreationDate
	}

	return tx
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.svc.RegisterTransaction(r.Context(), auth.Session(r), req.toLedger())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(created))
}

// update replaces a transaction. Omitted account_id and creation_date keep the stored values.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	tx := req.toLedger()
	tx.ID = id

	updated, err := h.svc.UpdateTransaction(r.Context(), auth.Session(r), tx)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), auth.Session(r), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

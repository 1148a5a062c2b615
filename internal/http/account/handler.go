package account

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/export"
	"github.com/MrJamesThe3rd/dindin/internal/http/auth"
	"github.com/MrJamesThe3rd/dindin/internal/http/respond"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

const maxStatementSize = 10 << 20

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/report", h.report)
	r.Get("/{id}/report.csv", h.reportCSV)
	r.Post("/{id}/statements", h.importStatement)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Accounts(r.Context(), auth.Session(r), r.URL.Query().Get("q"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAccountsResponse(view))
}

type accountRequest struct {
	Name        string          `json:"name"`
	Institution string          `json:"institution"`
	Balance     decimal.Decimal `json:"balance"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.svc.CreateAccount(r.Context(), auth.Session(r), req.toNewAccount())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toAccountResponse(created))
}

func (req accountRequest) toNewAccount() dashboard.NewAccount {
	return dashboard.NewAccount{
		Name:        req.Name,
		Institution: req.Institution,
		Balance:     req.Balance,
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.svc.UpdateAccount(r.Context(), auth.Session(r), id, req.toNewAccount())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAccountResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), auth.Session(r), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.buildReport(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, toReportResponse(rep))
}

func (h *Handler) reportCSV(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.buildReport(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(rep.Account, rep.View)+".csv"))

	// The status line is already out; a failure can only be logged.
	if err := export.WriteCSV(w, rep.View); err != nil {
		slog.Error("failed to write csv export", "account", rep.Account.ID, "path", r.URL.Path, "error", err)
	}
}

// buildReport writes the error response itself and reports whether the caller should continue.
func (h *Handler) buildReport(w http.ResponseWriter, r *http.Request) (dashboard.AccountReport, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return dashboard.AccountReport{}, false
	}

	q, err := parseReportQuery(r)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return dashboard.AccountReport{}, false
	}

	rep, err := h.svc.AccountReport(r.Context(), auth.Session(r), id, q)
	if err != nil {
		respond.Error(w, r, err)
		return dashboard.AccountReport{}, false
	}

	return rep, true
}

func parseReportQuery(r *http.Request) (dashboard.ReportQuery, error) {
	values := r.URL.Query()

	q := dashboard.ReportQuery{
		Criteria: report.Criteria{Query: values.Get("q"), Type: report.AllTypes},
	}

	if s := values.Get("type"); s != "" && s != string(report.AllTypes) {
		t, err := ledger.ParseType(s)
		if err != nil {
			return q, err
		}

		q.Criteria.Type = t
	}

	rng, ok := report.ParseDateRange(values.Get("range"))
	if !ok {
		return q, fmt.Errorf("unknown range %q", values.Get("range"))
	}

	q.Criteria.Range = rng

	order, ok := report.ParseSortOrder(values.Get("sort"))
	if !ok {
		return q, fmt.Errorf("unknown sort %q", values.Get("sort"))
	}

	q.Order = order

	return q, nil
}

type importResponse struct {
	Profile      string                `json:"profile"`
	Charset      string                `json:"charset"`
	Imported     int                   `json:"imported"`
	Skipped      int                   `json:"skipped"`
	Transactions []transactionResponse `json:"transactions"`
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxStatementSize)

	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		respond.Message(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	res, err := h.svc.ImportStatement(r.Context(), auth.Session(r), id, file, r.FormValue("profile"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{
		Profile:      res.Profile,
		Charset:      res.Charset,
		Imported:     len(res.Imported),
		Skipped:      res.Skipped,
		Transactions: make([]transactionResponse, 0, len(res.Imported)),
	}

	for _, tx := range res.Imported {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}

	respond.JSON(w, http.StatusCreated, resp)
}

package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/auth"
	"github.com/moneta-app/moneta/internal/http/respond"
	"github.com/moneta-app/moneta/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/spending", h.spending)
	r.Get("/overview", h.overview)
}

// dateRange reads start_date/end_date query params, defaulting to the
// current calendar month.
func dateRange(r *http.Request) (time.Time, time.Time, bool) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return from, to, false
		}

		from = t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return from, to, false
		}

		to = t
	}

	return from, to, true
}

type summaryResponse struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	from, to, ok := dateRange(r)
	if !ok {
		respond.BadRequest(w, "invalid date range")
		return
	}

	s, err := h.svc.Summary(r.Context(), userID, from, to)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Net:          s.Net,
	})
}

type categorySpendResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

func (h *Handler) spending(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	from, to, ok := dateRange(r)
	if !ok {
		respond.BadRequest(w, "invalid date range")
		return
	}

	spends, err := h.svc.SpendingByCategory(r.Context(), userID, from, to)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]categorySpendResponse, len(spends))
	for i, cs := range spends {
		resp[i] = categorySpendResponse{Category: cs.Category, Total: cs.Total}
	}

	respond.JSON(w, http.StatusOK, resp)
}

type accountBalanceResponse struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
}

type overviewResponse struct {
	Accounts []accountBalanceResponse `json:"accounts"`
	Total    decimal.Decimal          `json:"total"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	o, err := h.svc.AccountOverview(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	accounts := make([]accountBalanceResponse, len(o.Accounts))
	for i, a := range o.Accounts {
		accounts[i] = accountBalanceResponse{
			AccountID: a.AccountID.String(),
			Name:      a.Name,
			Currency:  a.Currency,
			Balance:   a.Balance,
		}
	}

	respond.JSON(w, http.StatusOK, overviewResponse{Accounts: accounts, Total: o.Total})
}

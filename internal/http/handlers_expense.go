package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensetracker/internal/services"
)

// Ledger is the query engine behind the expense routes.
type Ledger interface {
	AddExpense(ctx context.Context, p services.AddExpenseParams) services.Result[services.AddedExpense]
	ListExpenses(ctx context.Context, startDate, endDate string) services.Result[services.ExpenseList]
	Summarize(ctx context.Context, startDate, endDate, category string) services.Result[services.Summary]
}

type ExpenseHandler struct {
	ledger Ledger
}

func NewExpenseHandler(ledger Ledger) *ExpenseHandler {
	return &ExpenseHandler{ledger: ledger}
}

// Routes mounts the handlers under /api/v1/expenses.
func (h *ExpenseHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

func (h *ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	params, err := ParseAddExpense(w, r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	res := h.ledger.AddExpense(r.Context(), params)
	ResultResponse(res, http.StatusCreated).Write(w)
}

func (h *ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	q := ParseRangeParams(r.URL.Query())

	res := h.ledger.ListExpenses(r.Context(), q.StartDate, q.EndDate)
	ResultResponse(res, http.StatusOK).Write(w)
}

func (h *ExpenseHandler) summary(w http.ResponseWriter, r *http.Request) {
	q := ParseRangeParams(r.URL.Query())

	res := h.ledger.Summarize(r.Context(), q.StartDate, q.EndDate, q.Category)
	ResultResponse(res, http.StatusOK).Write(w)
}

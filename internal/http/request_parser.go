package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"expensetracker/internal/services"
)

const maxBodyBytes = 1 << 20

// addExpenseRequest accepts the amount as a JSON number or a numeric string.
type addExpenseRequest struct {
	Date        string           `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Subcategory *string          `json:"subcategory"`
	Note        *string          `json:"note"`
}

// ParseAddExpense decodes a single JSON object from the request body. A
// missing amount is passed on as zero and rejected by validation.
func ParseAddExpense(w http.ResponseWriter, r *http.Request) (services.AddExpenseParams, error) {
	var req addExpenseRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return services.AddExpenseParams{}, errors.New("Invalid request body: empty body")
		}
		return services.AddExpenseParams{}, fmt.Errorf("Invalid request body: %w", err)
	}
	if dec.More() {
		return services.AddExpenseParams{}, errors.New("Invalid request body: unexpected data after JSON object")
	}

	var amount float64
	if req.Amount != nil {
		amount = req.Amount.InexactFloat64()
	}

	return services.AddExpenseParams{
		Date:        req.Date,
		Amount:      amount,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Note:        req.Note,
	}, nil
}

// RangeParams holds the query parameters shared by list and summary.
type RangeParams struct {
	StartDate string
	EndDate   string
	Category  string
}

func ParseRangeParams(query url.Values) RangeParams {
	return RangeParams{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Category:  query.Get("category"),
	}
}

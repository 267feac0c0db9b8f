package services

import (
	"context"
	"errors"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

//go:generate mockgen -source=expense_service.go -destination=expense_service_mock.go -package=services

// Store is the ledger store used by the service.
type Store interface {
	Insert(ctx context.Context, e core.Expense) (int64, error)
	QueryRange(ctx context.Context, startDate, endDate string) ([]core.Expense, error)
	AggregateRange(ctx context.Context, startDate, endDate, category string) ([]core.CategoryTotal, error)
}

// EventPublisher announces newly recorded expenses.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
}

// ExpenseService validates input and runs the add, list and summarize
// operations against the store.
type ExpenseService struct {
	store     Store
	publisher EventPublisher
	logger    *log.Logger
}

// NewExpenseService wires the service. publisher may be nil.
func NewExpenseService(store Store, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

type AddExpenseParams struct {
	Date        string
	Amount      float64
	Category    string
	Subcategory *string
	Note        *string
}

type AddedExpense struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type ExpenseList struct {
	Count    int            `json:"count"`
	Expenses []core.Expense `json:"expenses"`
}

type Summary struct {
	Period      string               `json:"period"`
	TotalAmount float64              `json:"total_amount"`
	Summary     []core.CategoryTotal `json:"summary"`
}

// AddExpense validates date, amount and category in that order and records
// the expense. Nothing is persisted when validation fails.
func (s *ExpenseService) AddExpense(ctx context.Context, p AddExpenseParams) Result[AddedExpense] {
	e := core.Expense{
		Date:        p.Date,
		Amount:      p.Amount,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Note:        p.Note,
	}
	if err := e.Validate(); err != nil {
		s.rejected(ctx, log.OpAdd, err)
		return Fail[AddedExpense](err)
	}

	id, err := s.store.Insert(ctx, e)
	if err != nil {
		err = core.NewStorageError("", err)
		s.loggerFor(ctx).ErrorContext(ctx, "Failed to save expense", log.NewFields().
			WithOperation(log.OpAdd).
			WithExpense(e.Date, e.Amount, e.Category).
			WithError(err, log.ErrorTypeDatabase).ToSlice()...)
		return Fail[AddedExpense](err)
	}
	e.ID = id

	s.publish(ctx, e)

	return Ok(AddedExpense{
		ID:      id,
		Message: fmt.Sprintf("Added expense: %s - %s on %s", e.Category, core.FormatAmount(e.Amount), e.Date),
	})
}

// ListExpenses returns every expense dated within [startDate, endDate],
// newest first. An inverted range yields an empty list.
func (s *ExpenseService) ListExpenses(ctx context.Context, startDate, endDate string) Result[ExpenseList] {
	if err := validateRange(startDate, endDate); err != nil {
		s.rejected(ctx, log.OpList, err)
		return Fail[ExpenseList](err)
	}

	expenses, err := s.store.QueryRange(ctx, startDate, endDate)
	if err != nil {
		err = core.NewStorageError("", err)
		s.loggerFor(ctx).ErrorContext(ctx, "Failed to list expenses", log.NewFields().
			WithOperation(log.OpList).
			WithRange(startDate, endDate).
			WithError(err, log.ErrorTypeDatabase).ToSlice()...)
		return Fail[ExpenseList](err)
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}

	return Ok(ExpenseList{Count: len(expenses), Expenses: expenses})
}

// Summarize totals the expenses within [startDate, endDate] per category.
// A non-empty category narrows the rows before grouping; it is matched as
// given and not checked against the fixed category set.
func (s *ExpenseService) Summarize(ctx context.Context, startDate, endDate, category string) Result[Summary] {
	if err := validateRange(startDate, endDate); err != nil {
		s.rejected(ctx, log.OpSummarize, err)
		return Fail[Summary](err)
	}

	rows, err := s.store.AggregateRange(ctx, startDate, endDate, category)
	if err != nil {
		err = core.NewStorageError("", err)
		s.loggerFor(ctx).ErrorContext(ctx, "Failed to summarize expenses", log.NewFields().
			WithOperation(log.OpSummarize).
			WithRange(startDate, endDate).
			With(log.FieldCategory, category).
			WithError(err, log.ErrorTypeDatabase).ToSlice()...)
		return Fail[Summary](err)
	}
	if rows == nil {
		rows = []core.CategoryTotal{}
	}

	return Ok(Summary{
		Period:      core.Period(startDate, endDate),
		TotalAmount: core.GrandTotal(rows),
		Summary:     rows,
	})
}

func (s *ExpenseService) publish(ctx context.Context, e core.Expense) {
	if s.publisher == nil {
		return
	}
	// The expense is already committed; a lost event must not fail the add.
	if err := s.publisher.PublishExpenseCreated(ctx, e); err != nil {
		s.loggerFor(ctx).WarnContext(ctx, "Failed to publish expense created event", log.NewFields().
			WithOperation(log.OpPublish).
			With(log.FieldExpenseID, e.ID).
			WithError(err, log.ErrorTypeNetwork).ToSlice()...)
	}
}

// loggerFor prefers the request-scoped logger so request ids reach the
// service's records.
func (s *ExpenseService) loggerFor(ctx context.Context) *log.Logger {
	return log.FromContextOr(ctx, s.logger).WithComponent(log.ComponentLedger)
}

func (s *ExpenseService) rejected(ctx context.Context, op string, err error) {
	s.loggerFor(ctx).DebugContext(ctx, "Rejected invalid input", log.NewFields().
		WithOperation(op).
		WithError(err, log.ErrorTypeValidation).ToSlice()...)
}

// validateRange checks both endpoints independently and names the failing one.
func validateRange(startDate, endDate string) error {
	if err := core.ValidateDate(startDate); err != nil {
		return prefixValidation("Invalid start_date: ", err)
	}
	if err := core.ValidateDate(endDate); err != nil {
		return prefixValidation("Invalid end_date: ", err)
	}
	return nil
}

func prefixValidation(prefix string, err error) error {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return &core.ValidationError{Message: prefix + ve.Message, Err: ve.Err}
	}
	return err
}

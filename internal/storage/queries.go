package storage

import (
	"context"
	"database/sql"
)

const createExpense = `
INSERT INTO expenses (date, amount, category, subcategory, note)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`

type CreateExpenseParams struct {
	Date        string
	Amount      float64
	Category    string
	Subcategory sql.NullString
	Note        sql.NullString
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, q.driver.rebind(createExpense),
		arg.Date,
		arg.Amount,
		arg.Category,
		arg.Subcategory,
		arg.Note,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listExpensesByDateRange = `
SELECT id, date, amount, category, subcategory, note
FROM expenses
WHERE date BETWEEN ? AND ?
ORDER BY date DESC, id DESC
`

type ExpenseRow struct {
	ID          int64
	Date        string
	Amount      float64
	Category    string
	Subcategory sql.NullString
	Note        sql.NullString
}

func (q *Queries) ListExpensesByDateRange(ctx context.Context, startDate, endDate string) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, q.driver.rebind(listExpensesByDateRange), startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ExpenseRow{}
	for rows.Next() {
		var i ExpenseRow
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.Amount,
			&i.Category,
			&i.Subcategory,
			&i.Note,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumExpensesByCategory = `
SELECT category, SUM(amount) AS total_amount, COUNT(*) AS count
FROM expenses
WHERE date BETWEEN ? AND ?
GROUP BY category
ORDER BY total_amount DESC, category ASC
`

const sumExpensesByCategoryFiltered = `
SELECT category, SUM(amount) AS total_amount, COUNT(*) AS count
FROM expenses
WHERE date BETWEEN ? AND ? AND category = ?
GROUP BY category
ORDER BY total_amount DESC, category ASC
`

type SumExpensesByCategoryParams struct {
	StartDate string
	EndDate   string
	// Category restricts the aggregate to one category when non-empty.
	Category string
}

type CategorySumRow struct {
	Category    string
	TotalAmount float64
	Count       int64
}

func (q *Queries) SumExpensesByCategory(ctx context.Context, arg SumExpensesByCategoryParams) ([]CategorySumRow, error) {
	query := sumExpensesByCategory
	args := []interface{}{arg.StartDate, arg.EndDate}
	if arg.Category != "" {
		query = sumExpensesByCategoryFiltered
		args = append(args, arg.Category)
	}
	rows, err := q.db.QueryContext(ctx, q.driver.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CategorySumRow{}
	for rows.Next() {
		var i CategorySumRow
		if err := rows.Scan(&i.Category, &i.TotalAmount, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

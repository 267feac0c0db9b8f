package core

// CategoryTotal is one row of an aggregate query: the spend for a single
// category within a date range.
type CategoryTotal struct {
	Category    string  `json:"category"`
	TotalAmount float64 `json:"total_amount"`
	Count       int64   `json:"count"`
}

// GrandTotal sums the per-category totals in order.
func GrandTotal(rows []CategoryTotal) float64 {
	var total float64
	for _, r := range rows {
		total += r.TotalAmount
	}
	return total
}

// Period renders the echoed range of a summary, "start to end".
func Period(start, end string) string {
	return start + " to " + end
}

package core

// CategorySpending is one row of the spending report: the summed expense
// amount for a single category. Categories without expense rows do not
// produce a row.
type CategorySpending struct {
	Name  string
	Total Money
}

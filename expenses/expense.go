package expenses

// Expense is a single shared cost record retrieved from the expense service. Cost is kept
// as the decimal string supplied by the service so that it is never rounded on the way through.
type Expense struct {
	ID          string
	GroupID     string
	Cost        string
	Date        string
	Description string
	Category    *Category
}

type Category struct {
	ID   string
	Name string
}

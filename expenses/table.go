package expenses

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Header is the fixed column layout of a published expense table.
var Header = []string{"expense_id", "group_id", "cost", "effective_date", "description", "category"}

type Table struct {
	Header  []string
	Records [][]string
}

type Options struct {
	// Placeholder category name used for expenses without a category. If empty, an expense
	// without a category is rejected as malformed.
	MissingCategory string
}

// ToTable converts a list of expenses to a table with one record per expense, in the
// order supplied. Nothing is filtered or deduplicated.
func ToTable(list []Expense, options Options) (*Table, error) {
	header := make([]string, len(Header))
	copy(header, Header)

	records := make([][]string, 0, len(list))
	for i, e := range list {
		record, err := toRecord(e, options)
		if err != nil {
			return nil, fmt.Errorf("expense %v (row %v): %w", e.ID, i+1, err)
		}

		records = append(records, record)
	}

	return &Table{
		Header:  header,
		Records: records,
	}, nil
}

// Total returns the sum of the 'cost' column. Costs are passed through as supplied so a
// non-numeric cost is only reported here.
func (t *Table) Total() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, record := range t.Records {
		cost, err := decimal.NewFromString(record[2])
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid cost '%v' (%w)", record[2], ErrMalformedRecord)
		}

		total = total.Add(cost)
	}

	return total, nil
}

func toRecord(e Expense, options Options) ([]string, error) {
	id := clean(e.ID)
	if id == "" {
		return nil, fmt.Errorf("missing expense ID (%w)", ErrMalformedRecord)
	}

	category := options.MissingCategory
	if e.Category != nil && clean(e.Category.Name) != "" {
		category = clean(e.Category.Name)
	} else if category == "" {
		return nil, fmt.Errorf("missing category (%w)", ErrMalformedRecord)
	}

	return []string{
		id,
		clean(e.GroupID),
		clean(e.Cost),
		effectiveDate(e.Date),
		e.Description,
		category,
	}, nil
}

// effectiveDate reduces a service timestamp to the calendar date it was recorded for. The
// offset of the timestamp is retained i.e. the date is the date as recorded and not the UTC date.
// Anything that is not an RFC3339 timestamp or a calendar date is kept as supplied.
func effectiveDate(v string) string {
	s := clean(v)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}

	return s
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

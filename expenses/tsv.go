package expenses

import (
	"encoding/csv"
	"io"
)

// TSV writes the table header and records to a tab separated file.
func (t *Table) TSV(f io.Writer) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(t.Header); err != nil {
		return err
	}

	for _, record := range t.Records {
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

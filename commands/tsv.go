package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// sheetToTSV writes a worksheet range to a TSV file. Rows are padded to the width of the
// header row because the Sheets API omits trailing empty cells.
func sheetToTSV(f io.Writer, data *sheets.ValueRange) error {
	if len(data.Values) == 0 {
		return fmt.Errorf("empty sheet")
	}

	// ... header
	row := data.Values[0]
	header := make([]string, len(row))
	for i, v := range row {
		header[i] = clean(v)
	}

	if len(header) == 0 {
		return fmt.Errorf("missing/invalid header row")
	}

	// ... records
	records := [][]string{}
	for _, row := range data.Values[1:] {
		width := len(header)
		if len(row) > width {
			width = len(row)
		}

		record := make([]string, width)
		for i, v := range row {
			record[i] = clean(v)
		}

		records = append(records, record)
	}

	// ... write to file
	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write(header)
	for _, record := range records {
		w.Write(record)
	}

	w.Flush()

	return w.Error()
}

func clean(v any) string {
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func tsvToTable(f io.Reader) ([]string, [][]string, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("TSV file is empty")
	}

	if len(records[0]) == 0 {
		return nil, nil, fmt.Errorf("TSV file missing header")
	}

	return records[0], records[1:], nil
}

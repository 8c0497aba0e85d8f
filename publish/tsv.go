package publish

import (
	"context"
	"fmt"
	"io"

	"github.com/splitsync/splitwise-app-sheets/expenses"
	"github.com/splitsync/splitwise-app-sheets/logger"
)

// TSV is a stand-in publisher that writes the table to a TSV file instead of a spreadsheet.
type TSV struct {
	w io.Writer
}

func NewTSV(w io.Writer) *TSV {
	return &TSV{
		w: w,
	}
}

func (t *TSV) Publish(ctx context.Context, name string, folder string, table *expenses.Table) error {
	log := logger.FromContext(ctx)

	log.Info().Str("name", name).Str("folder", folder).Msg("dry run - writing expense table as TSV")

	if err := table.TSV(t.w); err != nil {
		return fmt.Errorf("error writing TSV (%v) (%w)", err, expenses.ErrDestinationWrite)
	}

	return nil
}

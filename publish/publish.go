package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/splitsync/splitwise-app-sheets/expenses"
	"github.com/splitsync/splitwise-app-sheets/logger"
)

// Drive locates and creates spreadsheet documents in a folder.
type Drive interface {
	// Find returns the IDs of the spreadsheets with the name in the folder, most recently
	// modified first.
	Find(ctx context.Context, name string, folder string) ([]string, error)
	Create(ctx context.Context, name string, folder string) (string, error)
}

// Sheets reads and writes worksheet cell values.
type Sheets interface {
	FirstSheet(ctx context.Context, spreadsheet string) (string, error)
	Clear(ctx context.Context, spreadsheet string, sheet string) error
	Write(ctx context.Context, spreadsheet string, sheet string, header []string, records [][]string) error
}

type Publisher struct {
	drive  Drive
	sheets Sheets
}

func NewPublisher(drive Drive, sheets Sheets) *Publisher {
	return &Publisher{
		drive:  drive,
		sheets: sheets,
	}
}

// Publish replaces the contents of the first worksheet of the named spreadsheet with the
// table, creating the spreadsheet in the folder if it does not already exist. The write is
// not transactional: a failure after the clear leaves the worksheet partially written.
func (p *Publisher) Publish(ctx context.Context, name string, folder string, table *expenses.Table) error {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("missing spreadsheet name (%w)", expenses.ErrConfig)
	}

	if table == nil {
		return fmt.Errorf("missing expense table (%w)", expenses.ErrDestinationWrite)
	}

	matches, err := p.drive.Find(ctx, name, folder)
	if err != nil {
		return err
	}

	var spreadsheet string
	var created bool

	switch {
	case len(matches) == 0:
		if spreadsheet, err = p.drive.Create(ctx, name, folder); err != nil {
			return err
		}

		created = true
		log.Info().Str("spreadsheet", spreadsheet).Str("name", name).Msg("created spreadsheet")

	default:
		if len(matches) > 1 {
			log.Warn().Str("name", name).Strs("spreadsheets", matches).Msg("multiple spreadsheets with the same name, using the most recently modified")
		}

		spreadsheet = matches[0]
	}

	sheet, err := p.sheets.FirstSheet(ctx, spreadsheet)
	if err != nil {
		return err
	}

	if !created {
		log.Info().Str("spreadsheet", spreadsheet).Str("sheet", sheet).Msg("clearing existing worksheet")

		if err := p.sheets.Clear(ctx, spreadsheet, sheet); err != nil {
			return err
		}
	}

	if err := p.sheets.Write(ctx, spreadsheet, sheet, table.Header, table.Records); err != nil {
		return err
	}

	log.Debug().Str("spreadsheet", spreadsheet).Str("sheet", sheet).Int("rows", len(table.Records)).Msg("wrote expense table")

	return nil
}

package expenses

import (
	"context"
	"fmt"
	"strings"

	"github.com/splitsync/splitwise-app-sheets/logger"
)

// Source retrieves the expenses for a group from the expense service.
type Source interface {
	Fetch(ctx context.Context, groupID string, limit int) ([]Expense, error)
}

// Publisher replaces the contents of the named spreadsheet in a folder with a table.
type Publisher interface {
	Publish(ctx context.Context, name string, folder string, table *Table) error
}

type Job struct {
	GroupID  string
	Limit    int
	Document string
	Folder   string
	Options  Options
}

// Sync runs a single fetch-transform-publish pass. The first error aborts the pass and
// nothing is published if the expenses cannot be converted to a table.
func Sync(ctx context.Context, source Source, publisher Publisher, job Job) (*Table, error) {
	log := logger.FromContext(ctx)

	if err := job.validate(); err != nil {
		return nil, err
	}

	list, err := source.Fetch(ctx, job.GroupID, job.Limit)
	if err != nil {
		return nil, err
	}

	log.Info().Str("group_id", job.GroupID).Int("expenses", len(list)).Msg("retrieved expenses")

	table, err := ToTable(list, job.Options)
	if err != nil {
		return nil, err
	}

	if err := publisher.Publish(ctx, job.Document, job.Folder, table); err != nil {
		return nil, err
	}

	event := log.Info().
		Str("document", job.Document).
		Int("rows", len(table.Records))

	if total, err := table.Total(); err == nil {
		event = event.Str("total", total.String())
	}

	event.Msg("published expenses")

	return table, nil
}

func (j Job) validate() error {
	if strings.TrimSpace(j.GroupID) == "" {
		return fmt.Errorf("missing group ID (%w)", ErrConfig)
	}

	if j.Limit <= 0 {
		return fmt.Errorf("invalid limit %v (%w)", j.Limit, ErrConfig)
	}

	if strings.TrimSpace(j.Document) == "" {
		return fmt.Errorf("missing spreadsheet name (%w)", ErrConfig)
	}

	if strings.TrimSpace(j.Folder) == "" {
		return fmt.Errorf("missing Drive folder (%w)", ErrConfig)
	}

	return nil
}

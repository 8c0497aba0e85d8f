package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/splitsync/splitwise-app-sheets/config"
	"github.com/splitsync/splitwise-app-sheets/expenses"
	"github.com/splitsync/splitwise-app-sheets/logger"
	"github.com/splitsync/splitwise-app-sheets/publish"
)

func configuration() config.Config {
	return config.Config{
		Google: config.Google{
			Folder:          "folder-1",
			SpreadsheetName: "Expenses 2024",
		},
		Splitwise: config.Splitwise{
			GroupID: "29489850",
			Limit:   100000,
		},
	}
}

func TestSyncOverride(t *testing.T) {
	tests := []struct {
		cmd      Sync
		expected func(*config.Config)
	}{
		{
			cmd:      Sync{},
			expected: func(c *config.Config) {},
		},
		{
			cmd:      Sync{group: "12345"},
			expected: func(c *config.Config) { c.Splitwise.GroupID = "12345" },
		},
		{
			cmd:      Sync{name: "Expenses 2025"},
			expected: func(c *config.Config) { c.Google.SpreadsheetName = "Expenses 2025" },
		},
		{
			cmd:      Sync{folder: "folder-2"},
			expected: func(c *config.Config) { c.Google.Folder = "folder-2" },
		},
		{
			cmd:      Sync{limit: 50},
			expected: func(c *config.Config) { c.Splitwise.Limit = 50 },
		},
		{
			cmd:      Sync{group: "  ", name: "", folder: " ", limit: -1},
			expected: func(c *config.Config) {},
		},
		{
			cmd: Sync{group: " 12345 ", name: "Expenses 2025", folder: "folder-2", limit: 10},
			expected: func(c *config.Config) {
				c.Splitwise.GroupID = "12345"
				c.Google.SpreadsheetName = "Expenses 2025"
				c.Google.Folder = "folder-2"
				c.Splitwise.Limit = 10
			},
		},
	}

	for _, test := range tests {
		conf := configuration()
		expected := configuration()
		test.expected(&expected)

		test.cmd.override(&conf)

		if !reflect.DeepEqual(conf, expected) {
			t.Errorf("Incorrect configuration for %+v\n   expected: %+v\n   got:      %+v\n", test.cmd, expected, conf)
		}
	}
}

func TestSyncOutputToStdout(t *testing.T) {
	cmd := Sync{}

	w, closer, err := cmd.output()
	if err != nil {
		t.Fatalf("Unexpected error returned from output (%v)", err)
	}

	if w != os.Stdout {
		t.Errorf("Expected stdout for dry run without --file, got %v", w)
	}

	if err := closer(); err != nil {
		t.Errorf("Unexpected error closing stdout (%v)", err)
	}
}

func TestSyncOutputToFile(t *testing.T) {
	expected := `expense_id	group_id	cost	effective_date	description	category
101	29489850	15.00	2024-01-05	Dinner	Food
`

	file := filepath.Join(t.TempDir(), "dry-run", "expenses.tsv")
	cmd := Sync{dryrun: true, file: file}

	w, closer, err := cmd.output()
	if err != nil {
		t.Fatalf("Unexpected error returned from output (%v)", err)
	}

	table := expenses.Table{
		Header:  expenses.Header,
		Records: [][]string{{"101", "29489850", "15.00", "2024-01-05", "Dinner", "Food"}},
	}

	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(io.Discard, false))

	if err := publish.NewTSV(w).Publish(ctx, "Expenses 2024", "folder-1", &table); err != nil {
		t.Fatalf("Unexpected error publishing TSV (%v)", err)
	}

	if err := closer(); err != nil {
		t.Fatalf("Unexpected error closing TSV file (%v)", err)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("Error reading TSV file (%v)", err)
	}

	if string(b) != expected {
		t.Errorf("Incorrect TSV file\n   expected: %q\n   got:      %q\n", expected, string(b))
	}

	if err := closer(); err == nil {
		t.Errorf("Expected error closing TSV file twice")
	}
}

func TestSyncWithInvalidConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(file, []byte("GoogleDrive_config: [\n"), 0600); err != nil {
		t.Fatalf("Error writing configuration file (%v)", err)
	}

	cmd := Sync{dryrun: true}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(io.Discard, false))

	if err := cmd.Execute(ctx, &Options{Config: file}); !errors.Is(err, expenses.ErrConfig) {
		t.Errorf("Expected %v, got %v", expenses.ErrConfig, err)
	}
}

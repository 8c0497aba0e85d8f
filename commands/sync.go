package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/splitsync/splitwise-app-sheets/config"
	"github.com/splitsync/splitwise-app-sheets/expenses"
	"github.com/splitsync/splitwise-app-sheets/logger"
	"github.com/splitsync/splitwise-app-sheets/publish"
	"github.com/splitsync/splitwise-app-sheets/splitwise"
)

var SyncCmd = Sync{
	command: command{
		credentials: "",
	},

	group:  "",
	name:   "",
	folder: "",
	limit:  0,
	dryrun: false,
	file:   "",
}

type Sync struct {
	command
	group  string
	name   string
	folder string
	limit  int
	dryrun bool
	file   string
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Copies the expenses for a Splitwise group to a Google Sheets spreadsheet, replacing the existing contents"
}

func (cmd *Sync) Usage() string {
	return "[--group <ID>] [--name <spreadsheet>] [--folder <folder ID>] [--dry-run]"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] sync [options]\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves the expenses for a Splitwise group and writes them to the first worksheet of a")
	fmt.Println("  Google Sheets spreadsheet in a Google Drive folder. The spreadsheet is created if it does")
	fmt.Println("  not exist, otherwise the worksheet is cleared and overwritten.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    splitwise-app-sheets --config config.yml sync`)
	fmt.Println(`    splitwise-app-sheets --debug --config config.yml sync --group 29489850 --name "Expenses 2024"`)
	fmt.Println(`    splitwise-app-sheets --config config.yml sync --dry-run --file expenses.tsv`)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sync")

	flagset.StringVar(&cmd.group, "group", cmd.group, "Splitwise group ID. Overrides the configuration file")
	flagset.StringVar(&cmd.name, "name", cmd.name, "Spreadsheet name. Overrides the configuration file")
	flagset.StringVar(&cmd.folder, "folder", cmd.folder, "Google Drive folder ID. Overrides the configuration file")
	flagset.IntVar(&cmd.limit, "limit", cmd.limit, "Maximum number of expenses to retrieve. Overrides the configuration file")
	flagset.BoolVar(&cmd.dryrun, "dry-run", cmd.dryrun, "Writes the expenses as TSV instead of updating the spreadsheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file for --dry-run. Defaults to stdout")

	return flagset
}

func (cmd *Sync) Execute(args ...any) (err error) {
	ctx, options := unpack(args...)

	conf, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	cmd.override(conf)

	log := logger.FromContext(ctx).With().Str("run_id", uuid.New().String()).Logger()
	ctx = logger.WithContext(ctx, log)

	credentials := cmd.credentials
	if strings.TrimSpace(credentials) == "" {
		credentials = resolve(options.Config, conf.Google.Credentials)
	}

	if strings.TrimSpace(credentials) == "" {
		credentials = DEFAULT_CREDENTIALS
	}

	log.Debug().
		Str("config", options.Config).
		Str("group_id", conf.Splitwise.GroupID).
		Str("spreadsheet", conf.Google.SpreadsheetName).
		Str("folder", conf.Google.Folder).
		Bool("dry_run", cmd.dryrun).
		Msg("starting sync")

	source, err := splitwise.NewClient(ctx, splitwise.Credentials{
		ConsumerKey:    conf.Splitwise.ConsumerKey,
		ConsumerSecret: conf.Splitwise.ConsumerSecret,
		APIKey:         conf.Splitwise.APIKey,
	})
	if err != nil {
		return err
	}

	var publisher expenses.Publisher

	if cmd.dryrun {
		var w io.Writer
		var closer func() error

		if w, closer, err = cmd.output(); err != nil {
			return err
		}

		defer func() {
			if cerr := closer(); cerr != nil && err == nil {
				err = fmt.Errorf("error writing %v (%v)", cmd.file, cerr)
			}
		}()

		publisher = publish.NewTSV(w)
	} else {
		auth, err := publish.Authorize(ctx, credentials)
		if err != nil {
			return err
		}

		google, err := publish.NewGoogle(ctx, auth)
		if err != nil {
			return err
		}

		publisher = publish.NewPublisher(google, google)
	}

	job := expenses.Job{
		GroupID:  conf.Splitwise.GroupID,
		Limit:    conf.Splitwise.Limit,
		Document: conf.Google.SpreadsheetName,
		Folder:   conf.Google.Folder,
		Options: expenses.Options{
			MissingCategory: conf.Splitwise.MissingCategory,
		},
	}

	if _, err := expenses.Sync(ctx, source, publisher, job); err != nil {
		return err
	}

	return nil
}

func (cmd *Sync) override(conf *config.Config) {
	if v := strings.TrimSpace(cmd.group); v != "" {
		conf.Splitwise.GroupID = v
	}

	if v := strings.TrimSpace(cmd.name); v != "" {
		conf.Google.SpreadsheetName = v
	}

	if v := strings.TrimSpace(cmd.folder); v != "" {
		conf.Google.Folder = v
	}

	if cmd.limit > 0 {
		conf.Splitwise.Limit = cmd.limit
	}
}

// output returns the --dry-run destination and a function to close it.
func (cmd *Sync) output() (io.Writer, func() error, error) {
	if strings.TrimSpace(cmd.file) == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cmd.file), 0770); err != nil {
		return nil, nil, err
	}

	f, err := os.Create(cmd.file)
	if err != nil {
		return nil, nil, err
	}

	return f, f.Close, nil
}

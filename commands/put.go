package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/splitsync/splitwise-app-sheets/logger"
	"github.com/splitsync/splitwise-app-sheets/publish"
)

var PutCmd = Put{
	command: command{
		credentials: "",
	},

	url:   "",
	sheet: "",
	file:  "",
}

// Put replaces the contents of a worksheet with a TSV file e.g. to restore an expense table
// saved with 'sync --dry-run'.
type Put struct {
	command
	url   string
	sheet string
	file  string
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads a TSV file to a Google Sheets worksheet, replacing the existing contents"
}

func (cmd *Put) Usage() string {
	return "--url <url> [--sheet <worksheet>] --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] put [options] --url <URL> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Clears a Google Sheets worksheet and uploads a TSV file to it. The first worksheet is used")
	fmt.Println("  if --sheet is not specified")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    splitwise-app-sheets --debug put --credentials "service_account.json" \`)
	fmt.Println(`                                     --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                     --file "expenses.tsv"`)
	fmt.Println()
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL or key")
	flagset.StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet name. Defaults to the first worksheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file")

	return flagset
}

func (cmd *Put) Execute(args ...any) error {
	ctx, options := unpack(args...)
	log := logger.FromContext(ctx)

	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	spreadsheet, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	header, records, err := tsvToTable(f)
	if err != nil {
		return fmt.Errorf("invalid TSV file %v (%v)", cmd.file, err)
	}

	credentials, err := cmd.googleCredentials(options.Config)
	if err != nil {
		return err
	}

	auth, err := publish.Authorize(ctx, credentials)
	if err != nil {
		return err
	}

	google, err := publish.NewGoogle(ctx, auth)
	if err != nil {
		return err
	}

	sheet := strings.TrimSpace(cmd.sheet)
	if sheet == "" {
		if sheet, err = google.FirstSheet(ctx, spreadsheet); err != nil {
			return err
		}
	}

	log.Debug().Str("spreadsheet", spreadsheet).Str("sheet", sheet).Msg("uploading TSV file")

	if err := google.Clear(ctx, spreadsheet, sheet); err != nil {
		return err
	}

	if err := google.Write(ctx, spreadsheet, sheet, header, records); err != nil {
		return err
	}

	log.Info().Str("file", cmd.file).Str("sheet", sheet).Int("rows", len(records)).Msg("uploaded TSV file")

	return nil
}

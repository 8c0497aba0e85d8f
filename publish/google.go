package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/splitsync/splitwise-app-sheets/expenses"
)

const (
	SHEETS      = sheets.SpreadsheetsScope
	DRIVE       = drive.DriveScope
	SPREADSHEET = "application/vnd.google-apps.spreadsheet"
)

// Google implements Drive and Sheets with the Google Drive v3 and Sheets v4 APIs.
type Google struct {
	drive  *drive.Service
	sheets *sheets.Service
}

// Authorize loads a service account key file and returns the client options for the
// Drive and Sheets services.
func Authorize(ctx context.Context, credentials string) (option.ClientOption, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, fmt.Errorf("unable to read Google credentials %v (%v) (%w)", credentials, err, expenses.ErrAuthentication)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, SHEETS, DRIVE)
	if err != nil {
		return nil, fmt.Errorf("invalid Google credentials %v (%v) (%w)", credentials, err, expenses.ErrAuthentication)
	}

	return option.WithCredentials(creds), nil
}

func NewGoogle(ctx context.Context, options ...option.ClientOption) (*Google, error) {
	gdrive, err := drive.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Google Drive client (%v) (%w)", err, expenses.ErrAuthentication)
	}

	gsheets, err := sheets.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Google Sheets client (%v) (%w)", err, expenses.ErrAuthentication)
	}

	return &Google{
		drive:  gdrive,
		sheets: gsheets,
	}, nil
}

func (g *Google) Find(ctx context.Context, name string, folder string) ([]string, error) {
	page := ""
	ids := []string{}

	for {
		call := g.drive.Files.List().
			Q(query(name, folder)).
			Fields("nextPageToken, files(id, name, modifiedTime)").
			OrderBy("modifiedTime desc").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)

		if page != "" {
			call.PageToken(page)
		}

		files, err := call.Do()
		if err != nil {
			return nil, wrap(err, "unable to search Google Drive folder")
		}

		for _, file := range files.Files {
			ids = append(ids, file.Id)
		}

		if page = files.NextPageToken; page == "" {
			break
		}
	}

	return ids, nil
}

func (g *Google) Create(ctx context.Context, name string, folder string) (string, error) {
	file := drive.File{
		Name:     name,
		MimeType: SPREADSHEET,
		Parents:  []string{folder},
	}

	created, err := g.drive.Files.Create(&file).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", wrap(err, fmt.Sprintf("unable to create spreadsheet '%v'", name))
	}

	return created.Id, nil
}

func (g *Google) FirstSheet(ctx context.Context, spreadsheet string) (string, error) {
	response, err := g.sheets.Spreadsheets.Get(spreadsheet).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", wrap(err, "failed to fetch spreadsheet")
	}

	if len(response.Sheets) == 0 || response.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %v has no worksheets (%w)", spreadsheet, expenses.ErrDestinationWrite)
	}

	first := response.Sheets[0].Properties
	for _, sheet := range response.Sheets[1:] {
		if sheet.Properties != nil && sheet.Properties.Index < first.Index {
			first = sheet.Properties
		}
	}

	return first.Title, nil
}

func (g *Google) Clear(ctx context.Context, spreadsheet string, sheet string) error {
	rq := sheets.ClearValuesRequest{}

	if _, err := g.sheets.Spreadsheets.Values.Clear(spreadsheet, quote(sheet), &rq).Context(ctx).Do(); err != nil {
		return wrap(err, fmt.Sprintf("unable to clear worksheet '%v'", sheet))
	}

	return nil
}

func (g *Google) Write(ctx context.Context, spreadsheet string, sheet string, header []string, records [][]string) error {
	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             toValueRanges(sheet, header, records),
	}

	if _, err := g.sheets.Spreadsheets.Values.BatchUpdate(spreadsheet, &rq).Context(ctx).Do(); err != nil {
		return wrap(err, fmt.Sprintf("unable to write worksheet '%v'", sheet))
	}

	return nil
}

// toValueRanges lays out the header in row 1 and the records from row 2 onwards.
func toValueRanges(sheet string, header []string, records [][]string) []*sheets.ValueRange {
	name := quote(sheet)
	right := column(len(header))

	h := make([]any, len(header))
	for i, v := range header {
		h[i] = v
	}

	ranges := []*sheets.ValueRange{
		&sheets.ValueRange{
			Range:  fmt.Sprintf("%s!A1:%s1", name, right),
			Values: [][]any{h},
		},
	}

	if len(records) > 0 {
		rows := make([][]any, 0, len(records))
		for _, record := range records {
			row := make([]any, len(record))
			for i, v := range record {
				row[i] = v
			}

			rows = append(rows, row)
		}

		ranges = append(ranges, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!A2:%s", name, right),
			Values: rows,
		})
	}

	return ranges
}

// column converts a 1-based column number to A1 notation i.e. 1 is A, 27 is AA.
func column(n int) string {
	if n < 1 {
		return "A"
	}

	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}

	return s
}

func query(name, folder string) string {
	return fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false", escape(name), escape(folder), SPREADSHEET)
}

func escape(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}

func quote(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func wrap(err error, msg string) error {
	var e *googleapi.Error
	if errors.As(err, &e) && (e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden) {
		return fmt.Errorf("%v (%v) (%w)", msg, err, expenses.ErrAuthentication)
	}

	return fmt.Errorf("%v (%v) (%w)", msg, err, expenses.ErrDestinationWrite)
}

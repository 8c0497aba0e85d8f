package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"testing"

	"github.com/splitsync/splitwise-app-sheets/expenses"
	"github.com/splitsync/splitwise-app-sheets/logger"
)

var _ expenses.Publisher = (*Publisher)(nil)
var _ expenses.Publisher = (*TSV)(nil)
var _ Drive = (*Google)(nil)
var _ Sheets = (*Google)(nil)

type document struct {
	name   string
	folder string
	rows   [][]string
}

// backend is an in-memory Drive folder + worksheet store. Write only overwrites the cells it
// is given, the same as the Sheets API, so stale rows survive unless the sheet is cleared.
type backend struct {
	documents map[string]*document
	next      int
	created   []string
	cleared   []string
	err       map[string]error
}

func newBackend() *backend {
	return &backend{
		documents: map[string]*document{},
		err:       map[string]error{},
	}
}

func (b *backend) add(name, folder string, rows [][]string) string {
	b.next++
	id := fmt.Sprintf("spreadsheet-%v", b.next)
	b.documents[id] = &document{name: name, folder: folder, rows: rows}

	return id
}

func (b *backend) Find(ctx context.Context, name string, folder string) ([]string, error) {
	if err := b.err["find"]; err != nil {
		return nil, err
	}

	ids := []string{}
	for id, d := range b.documents {
		if d.name == name && d.folder == folder {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)

	return ids, nil
}

func (b *backend) Create(ctx context.Context, name string, folder string) (string, error) {
	if err := b.err["create"]; err != nil {
		return "", err
	}

	id := b.add(name, folder, nil)
	b.created = append(b.created, id)

	return id, nil
}

func (b *backend) FirstSheet(ctx context.Context, spreadsheet string) (string, error) {
	return "Hoja 1", nil
}

func (b *backend) Clear(ctx context.Context, spreadsheet string, sheet string) error {
	if err := b.err["clear"]; err != nil {
		return err
	}

	b.documents[spreadsheet].rows = nil
	b.cleared = append(b.cleared, spreadsheet)

	return nil
}

func (b *backend) Write(ctx context.Context, spreadsheet string, sheet string, header []string, records [][]string) error {
	if err := b.err["write"]; err != nil {
		return err
	}

	d := b.documents[spreadsheet]
	updated := append([][]string{header}, records...)

	for i, row := range updated {
		if i < len(d.rows) {
			d.rows[i] = row
		} else {
			d.rows = append(d.rows, row)
		}
	}

	return nil
}

func quiet() context.Context {
	return logger.WithContext(context.Background(), logger.NewWithWriter(io.Discard, false))
}

var header = []string{"expense_id", "group_id", "cost", "effective_date", "description", "category"}

func TestPublishCreatesSpreadsheet(t *testing.T) {
	expected := [][]string{
		{"expense_id", "group_id", "cost", "effective_date", "description", "category"},
		{"101", "29489850", "15.00", "2024-01-05", "Dinner", "Food"},
	}

	table := expenses.Table{
		Header: header,
		Records: [][]string{
			{"101", "29489850", "15.00", "2024-01-05", "Dinner", "Food"},
		},
	}

	b := newBackend()
	p := NewPublisher(b, b)

	if err := p.Publish(quiet(), "Expenses 2024", "folder-1", &table); err != nil {
		t.Fatalf("Unexpected error returned from Publish (%v)", err)
	}

	if len(b.created) != 1 {
		t.Fatalf("Expected 1 spreadsheet to be created, got %v", b.created)
	}

	d := b.documents[b.created[0]]
	if d.name != "Expenses 2024" || d.folder != "folder-1" {
		t.Errorf("Incorrect spreadsheet - expected:%v/%v, got:%v/%v", "folder-1", "Expenses 2024", d.folder, d.name)
	}

	if !reflect.DeepEqual(d.rows, expected) {
		t.Errorf("Incorrect spreadsheet contents\n   expected: %v\n   got:      %v\n", expected, d.rows)
	}

	if len(b.cleared) != 0 {
		t.Errorf("Unexpected clear of new spreadsheet %v", b.cleared)
	}
}

func TestPublishOverwritesExistingSpreadsheet(t *testing.T) {
	expected := [][]string{
		{"expense_id", "group_id", "cost", "effective_date", "description", "category"},
		{"201", "29489850", "40.00", "2024-03-01", "Groceries", "Food"},
		{"202", "29489850", "9.99", "2024-03-02", "Streaming", "Entertainment"},
	}

	stale := [][]string{header}
	for i := 0; i < 50; i++ {
		stale = append(stale, []string{fmt.Sprintf("%v", i), "29489850", "1.00", "2023-12-31", "stale", "General"})
	}

	b := newBackend()
	id := b.add("Expenses 2024", "folder-1", stale)
	p := NewPublisher(b, b)

	table := expenses.Table{
		Header:  header,
		Records: expected[1:],
	}

	if err := p.Publish(quiet(), "Expenses 2024", "folder-1", &table); err != nil {
		t.Fatalf("Unexpected error returned from Publish (%v)", err)
	}

	if len(b.created) != 0 {
		t.Errorf("Unexpected spreadsheet created %v", b.created)
	}

	if !reflect.DeepEqual(b.cleared, []string{id}) {
		t.Errorf("Incorrect cleared spreadsheets - expected:%v, got:%v", []string{id}, b.cleared)
	}

	if rows := b.documents[id].rows; !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect spreadsheet contents\n   expected: %v\n   got:      %v\n", expected, rows)
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	table := expenses.Table{
		Header: header,
		Records: [][]string{
			{"101", "29489850", "15.00", "2024-01-05", "Dinner", "Food"},
			{"102", "29489850", "12.5", "2024-01-07", "Taxi", "Transportation"},
		},
	}

	b := newBackend()
	p := NewPublisher(b, b)

	if err := p.Publish(quiet(), "Expenses 2024", "folder-1", &table); err != nil {
		t.Fatalf("Unexpected error returned from Publish (%v)", err)
	}

	id := b.created[0]
	first := append([][]string{}, b.documents[id].rows...)

	if err := p.Publish(quiet(), "Expenses 2024", "folder-1", &table); err != nil {
		t.Fatalf("Unexpected error returned from Publish (%v)", err)
	}

	if len(b.documents) != 1 {
		t.Errorf("Expected a single spreadsheet, got %v", len(b.documents))
	}

	if !reflect.DeepEqual(b.documents[id].rows, first) {
		t.Errorf("Spreadsheet contents changed on republish\n   first:  %v\n   second: %v\n", first, b.documents[id].rows)
	}
}

func TestPublishWithEmptyTable(t *testing.T) {
	expected := [][]string{header}

	table, err := expenses.ToTable(nil, expenses.Options{})
	if err != nil {
		t.Fatalf("Unexpected error returned from ToTable (%v)", err)
	}

	b := newBackend()
	p := NewPublisher(b, b)

	if err := p.Publish(quiet(), "Expenses 2024", "folder-1", table); err != nil {
		t.Fatalf("Unexpected error returned from Publish (%v)", err)
	}

	if rows := b.documents[b.created[0]].rows; !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect spreadsheet contents\n   expected: %v\n   got:      %v\n", expected, rows)
	}
}

func TestPublishWithDuplicateNamesUsesFirstMatch(t *testing.T) {
	b := newBackend()
	first := b.add("Expenses 2024", "folder-1", [][]string{{"old"}})
	second := b.add("Expenses 2024", "folder-1", [][]string{{"old"}})
	p := NewPublisher(b, b)

	table := expenses.Table{Header: header, Records: [][]string{}}

	if err := p.Publish(quiet(), "Expenses 2024", "folder-1", &table); err != nil {
		t.Fatalf("Unexpected error returned from Publish (%v)", err)
	}

	if !reflect.DeepEqual(b.cleared, []string{first}) {
		t.Errorf("Incorrect cleared spreadsheets - expected:%v, got:%v", []string{first}, b.cleared)
	}

	if rows := b.documents[second].rows; !reflect.DeepEqual(rows, [][]string{{"old"}}) {
		t.Errorf("Unexpected update to duplicate spreadsheet %v", rows)
	}
}

func TestPublishDoesNotTreatCreateFailureAsExisting(t *testing.T) {
	b := newBackend()
	b.err["create"] = fmt.Errorf("insufficient permissions (%w)", expenses.ErrDestinationWrite)
	p := NewPublisher(b, b)

	table := expenses.Table{Header: header, Records: [][]string{}}

	if err := p.Publish(quiet(), "Expenses 2024", "folder-1", &table); !errors.Is(err, expenses.ErrDestinationWrite) {
		t.Fatalf("Expected %v, got %v", expenses.ErrDestinationWrite, err)
	}

	if len(b.cleared) != 0 {
		t.Errorf("Unexpected clear after failed create %v", b.cleared)
	}
}

func TestPublishWithWriteError(t *testing.T) {
	b := newBackend()
	b.add("Expenses 2024", "folder-1", [][]string{header})
	b.err["write"] = fmt.Errorf("quota exceeded (%w)", expenses.ErrDestinationWrite)
	p := NewPublisher(b, b)

	table := expenses.Table{Header: header, Records: [][]string{}}

	if err := p.Publish(quiet(), "Expenses 2024", "folder-1", &table); !errors.Is(err, expenses.ErrDestinationWrite) {
		t.Fatalf("Expected %v, got %v", expenses.ErrDestinationWrite, err)
	}
}

func TestPublishWithMissingName(t *testing.T) {
	b := newBackend()
	p := NewPublisher(b, b)

	table := expenses.Table{Header: header, Records: [][]string{}}

	if err := p.Publish(quiet(), " ", "folder-1", &table); !errors.Is(err, expenses.ErrConfig) {
		t.Fatalf("Expected %v, got %v", expenses.ErrConfig, err)
	}
}

package crawler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yurifrl/gozaim/pkg/models"
)

// ErrMarkup means the page no longer has the structure a schema expects.
var ErrMarkup = errors.New("crawler: unexpected markup")

// RowSchema knows where a ledger row keeps each field. A change in the
// provider's markup should only need a new schema.
type RowSchema interface {
	Version() string
	ListSelector() string
	RowSelector() string
	RowID(html string) (string, error)
	ParseRow(year int, html string) (models.Record, error)
}

// Field locates one value inside a row: the Cell-th cell, then the Index-th
// match of Selector in it, then either attribute Attr or the text. When
// Split is set the value is cut on it and Part is kept.
type Field struct {
	Cell     int
	Selector string
	Index    int
	Attr     string
	Split    string
	Part     int
	Optional bool
}

type FieldMap struct {
	ID          Field
	Count       Field
	Date        Field
	Category    Field
	Genre       Field
	Amount      Field
	FromAccount Field
	ToAccount   Field
	Place       Field
	Name        Field
	Comment     Field
}

// TableSchema parses rows whose fields sit at fixed cell positions.
type TableSchema struct {
	Name string
	List string
	Row  string
	Cell string
	// DateLayout is applied to "<year>年<date field>".
	DateLayout string
	Fields     FieldMap
}

// SchemaV1 matches the money list markup in use since mid 2023.
var SchemaV1 = TableSchema{
	Name:       "v1",
	List:       `[class^="SearchResult-module__list___"]`,
	Row:        `[class^="SearchResult-module__list___"] [class^="SearchResult-module__body___"]`,
	Cell:       "div",
	DateLayout: "2006年1月2日",
	Fields: FieldMap{
		ID:          Field{Cell: 0, Selector: "i", Attr: "data-url", Split: "/", Part: 2},
		Count:       Field{Cell: 1, Selector: "i", Attr: "title", Split: "（"},
		Date:        Field{Cell: 2, Split: "（"},
		Category:    Field{Cell: 3, Selector: "span", Attr: "data-title"},
		Genre:       Field{Cell: 3, Selector: "span", Index: 1},
		Amount:      Field{Cell: 4, Selector: "span"},
		FromAccount: Field{Cell: 5, Selector: "img", Attr: "data-title", Optional: true},
		ToAccount:   Field{Cell: 6, Selector: "img", Attr: "data-title", Optional: true},
		Place:       Field{Cell: 7, Selector: "span"},
		Name:        Field{Cell: 8, Selector: "span"},
		Comment:     Field{Cell: 9, Selector: "span"},
	},
}

func (s TableSchema) Version() string      { return s.Name }
func (s TableSchema) ListSelector() string { return s.List }
func (s TableSchema) RowSelector() string  { return s.Row }

func (s TableSchema) cells(html string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse row: %w", err)
	}
	row := doc.Find("body").Children().First()
	if row.Length() == 0 {
		return nil, fmt.Errorf("%w: empty row", ErrMarkup)
	}
	return row.Find(s.Cell), nil
}

func (s TableSchema) RowID(html string) (string, error) {
	cells, err := s.cells(html)
	if err != nil {
		return "", err
	}
	id, err := extract(cells, "id", s.Fields.ID)
	return id, err
}

func (s TableSchema) ParseRow(year int, html string) (models.Record, error) {
	cells, err := s.cells(html)
	if err != nil {
		return models.Record{}, err
	}

	var r models.Record
	text := []struct {
		name string
		f    Field
		dst  *string
	}{
		{"id", s.Fields.ID, &r.ID},
		{"count", s.Fields.Count, &r.Count},
		{"category", s.Fields.Category, &r.Category},
		{"genre", s.Fields.Genre, &r.Genre},
		{"from_account", s.Fields.FromAccount, &r.FromAccount},
		{"to_account", s.Fields.ToAccount, &r.ToAccount},
		{"place", s.Fields.Place, &r.Place},
		{"name", s.Fields.Name, &r.Name},
		{"comment", s.Fields.Comment, &r.Comment},
	}
	for _, t := range text {
		v, err := extract(cells, t.name, t.f)
		if err != nil {
			return models.Record{}, err
		}
		*t.dst = v
	}

	date, err := extract(cells, "date", s.Fields.Date)
	if err != nil {
		return models.Record{}, err
	}
	r.Date, err = time.ParseInLocation(s.DateLayout, fmt.Sprintf("%d年%s", year, date), time.UTC)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: date %q: %v", ErrMarkup, date, err)
	}

	amount, err := extract(cells, "amount", s.Fields.Amount)
	if err != nil {
		return models.Record{}, err
	}
	r.Amount, err = parseAmount(amount)
	if err != nil {
		return models.Record{}, err
	}

	r.Type = models.DeriveType(r.FromAccount, r.ToAccount)
	return r, nil
}

// extract reads one field. A missing optional value is the empty string.
func extract(cells *goquery.Selection, name string, f Field) (string, error) {
	if f.Cell >= cells.Length() {
		return "", fmt.Errorf("%w: %s: cell %d of %d", ErrMarkup, name, f.Cell, cells.Length())
	}
	node := cells.Eq(f.Cell)
	if f.Selector != "" {
		matches := node.Find(f.Selector)
		if f.Index >= matches.Length() {
			if f.Optional {
				return "", nil
			}
			return "", fmt.Errorf("%w: %s: no %s[%d] in cell %d", ErrMarkup, name, f.Selector, f.Index, f.Cell)
		}
		node = matches.Eq(f.Index)
	}

	var v string
	if f.Attr != "" {
		attr, ok := node.Attr(f.Attr)
		if !ok {
			if f.Optional {
				return "", nil
			}
			return "", fmt.Errorf("%w: %s: missing attribute %s", ErrMarkup, name, f.Attr)
		}
		v = attr
	} else {
		v = node.Text()
	}

	if f.Split != "" {
		parts := strings.Split(v, f.Split)
		if f.Part >= len(parts) {
			return "", fmt.Errorf("%w: %s: %q has no part %d", ErrMarkup, name, v, f.Part)
		}
		v = parts[f.Part]
	}
	return strings.TrimSpace(v), nil
}

var amountReplacer = strings.NewReplacer("¥", "", "￥", "", ",", "", " ", "")

func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(amountReplacer.Replace(strings.TrimSpace(s)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", ErrMarkup, s)
	}
	return n, nil
}

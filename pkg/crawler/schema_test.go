package crawler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/gozaim/pkg/models"
)

type rowFixture struct {
	id       string
	day      int
	category string
	genre    string
	amount   string
	from     string
	to       string
	place    string
	name     string
	comment  string
}

func accountCell(title string) string {
	if title == "" {
		return `<div></div>`
	}
	return fmt.Sprintf(`<div><img data-title="%s" src="/icon.png"></div>`, title)
}

func (f rowFixture) html() string {
	return fmt.Sprintf(`<div class="SearchResult-module__body___x1Yz">`+
		`<div><i data-url="/money/%s"></i></div>`+
		`<div><i title="常に含める（集計）"></i></div>`+
		`<div>07月%02d日（水）</div>`+
		`<div><span data-title="%s">%s</span><span>%s</span></div>`+
		`<div><span>%s</span></div>`+
		`%s%s`+
		`<div><span>%s</span></div>`+
		`<div><span>%s</span></div>`+
		`<div><span>%s</span></div>`+
		`</div>`,
		f.id, f.day, f.category, f.category, f.genre, f.amount,
		accountCell(f.from), accountCell(f.to), f.place, f.name, f.comment)
}

func paymentRow(id string, day int) rowFixture {
	return rowFixture{
		id: id, day: day, category: "食費", genre: "食料品", amount: "¥1,280",
		from: "財布", place: "八百屋", name: "野菜", comment: "週末の買い物",
	}
}

func TestSchemaV1ParseRow(t *testing.T) {
	r, err := SchemaV1.ParseRow(2023, paymentRow("8123456789", 5).html())
	require.NoError(t, err)

	assert.Equal(t, models.Record{
		ID:          "8123456789",
		Count:       "常に含める",
		Date:        time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC),
		Category:    "食費",
		Genre:       "食料品",
		Amount:      1280,
		FromAccount: "財布",
		Type:        models.Payment,
		Place:       "八百屋",
		Name:        "野菜",
		Comment:     "週末の買い物",
	}, r)
}

func TestSchemaV1EntryTypes(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		want     models.EntryType
	}{
		{"payment", "財布", "", models.Payment},
		{"income", "", "銀行", models.Income},
		{"transfer", "銀行", "財布", models.Transfer},
		{"no accounts", "", "", models.Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := paymentRow("1", 1)
			row.from, row.to = tc.from, tc.to

			r, err := SchemaV1.ParseRow(2023, row.html())
			require.NoError(t, err)
			assert.Equal(t, tc.from, r.FromAccount)
			assert.Equal(t, tc.to, r.ToAccount)
			assert.Equal(t, tc.want, r.Type)
		})
	}
}

func TestSchemaV1RowID(t *testing.T) {
	id, err := SchemaV1.RowID(paymentRow("42", 9).html())
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestSchemaV1Markup(t *testing.T) {
	cases := []struct {
		name string
		html string
	}{
		{"empty", ``},
		{"too few cells", `<div><div><i data-url="/money/1"></i></div><div></div></div>`},
		{"missing id", `<div><div><i></i></div></div>`},
		{"bad amount", func() string {
			row := paymentRow("1", 1)
			row.amount = "n/a"
			return row.html()
		}()},
		{"bad date", paymentRow("1", 40).html()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SchemaV1.ParseRow(2023, tc.html)
			assert.True(t, errors.Is(err, ErrMarkup), "got %v", err)
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"¥1,280", 1280},
		{"￥300,000", 300000},
		{" ¥ 5,000 ", 5000},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

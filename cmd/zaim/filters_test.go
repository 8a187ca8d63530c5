package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/gozaim/pkg/models"
)

func day(d int) time.Time {
	return time.Date(2023, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestFilters(t *testing.T) {
	records := []models.Record{
		{ID: "1", Date: day(1), Type: models.Payment, Category: "食費", Genre: "食料品", Amount: 1280, Place: "八百屋"},
		{ID: "2", Date: day(10), Type: models.Income, Category: "給与", Amount: 300000, Comment: "July salary"},
		{ID: "3", Date: day(20), Type: models.Transfer, Amount: 5000, Name: "ATM"},
		{ID: "4", Date: day(31), Type: models.Payment, Category: "交通", Genre: "電車", Amount: 220},
	}

	cases := []struct {
		name string
		f    filters
		want []string
	}{
		{"none", filters{}, []string{"1", "2", "3", "4"}},
		{"date range inclusive", filters{startDate: "2023-07-10", endDate: "2023-07-20"}, []string{"2", "3"}},
		{"amount range", filters{minAmount: 1000, maxAmount: 10000}, []string{"1", "3"}},
		{"type", filters{entryType: "PAYMENT"}, []string{"1", "4"}},
		{"category or genre", filters{category: "電車"}, []string{"4"}},
		{"text", filters{text: "salary"}, []string{"2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keep, err := tc.f.toFilterFunc()
			require.NoError(t, err)

			got := apply(records, keep)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestFiltersRejectMalformedDates(t *testing.T) {
	cases := []struct {
		name string
		f    filters
	}{
		{"slashed start", filters{startDate: "2023/07/10"}},
		{"bad end", filters{endDate: "July 20"}},
		{"end before start", filters{startDate: "2023-07-20", endDate: "2023-07-10"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keep, err := tc.f.toFilterFunc()
			assert.Error(t, err)
			assert.Nil(t, keep)
		})
	}
}

func TestCSVOutputUsesFilter(t *testing.T) {
	records := []models.Record{
		{ID: "1", Date: day(1), Type: models.Payment, Amount: 1280},
		{ID: "2", Date: day(20), Type: models.Income, Amount: 300000},
	}
	keep, err := (&filters{entryType: "income"}).toFilterFunc()
	require.NoError(t, err)

	crawlFormat = "csv"
	t.Cleanup(func() { crawlFormat = "table" })

	var out strings.Builder
	crawlCmd.SetOut(&out)
	t.Cleanup(func() { crawlCmd.SetOut(nil) })

	require.NoError(t, writeRecords(crawlCmd, records, keep))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "2,"), lines[1])
}

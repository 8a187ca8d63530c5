package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveType(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want EntryType
	}{
		{"both accounts", "Wallet", "Bank", Transfer},
		{"source only", "Wallet", "", Payment},
		{"destination only", "", "Bank", Income},
		{"no accounts", "", "", Unknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DeriveType(c.from, c.to))
		})
	}
}

func TestRecordValues(t *testing.T) {
	r := Record{
		ID:          "1234",
		Count:       "1",
		Date:        time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC),
		Category:    "Food",
		Genre:       "Groceries",
		Amount:      1280,
		FromAccount: "Wallet",
		Type:        Payment,
		Place:       "Corner Market",
	}

	values := r.Values()
	assert.Len(t, values, len(r.Columns()))
	assert.Equal(t, "2023-07-05", values[2])
	assert.Equal(t, "payment", values[3])
	assert.Equal(t, "1280", values[6])
	assert.Equal(t, "", values[8])
}

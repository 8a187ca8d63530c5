package models

import (
	"strconv"
	"time"
)

// EntryType classifies a ledger line by which accounts it touches.
type EntryType string

const (
	Payment  EntryType = "payment"
	Income   EntryType = "income"
	Transfer EntryType = "transfer"
	Unknown  EntryType = ""
)

// DeriveType maps the presence of source and destination accounts to an
// entry type. Neither account present leaves the type unset.
func DeriveType(fromAccount, toAccount string) EntryType {
	switch {
	case fromAccount != "" && toAccount != "":
		return Transfer
	case fromAccount != "":
		return Payment
	case toAccount != "":
		return Income
	default:
		return Unknown
	}
}

// Record is one ledger row as displayed by the web UI. Values are display
// text and are never checked against the API lookup tables.
type Record struct {
	ID          string    `json:"id"`
	Count       string    `json:"count"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Genre       string    `json:"genre"`
	Amount      int64     `json:"amount"`
	FromAccount string    `json:"from_account,omitempty"`
	ToAccount   string    `json:"to_account,omitempty"`
	Type        EntryType `json:"type,omitempty"`
	Place       string    `json:"place"`
	Name        string    `json:"name"`
	Comment     string    `json:"comment"`
}

var recordColumns = []string{
	"id", "count", "date", "type", "category", "genre", "amount",
	"from_account", "to_account", "place", "name", "comment",
}

// Columns returns the CSV header for records.
func (r Record) Columns() []string {
	return recordColumns
}

// Values returns the record fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.ID,
		r.Count,
		r.Date.Format("2006-01-02"),
		string(r.Type),
		r.Category,
		r.Genre,
		strconv.FormatInt(r.Amount, 10),
		r.FromAccount,
		r.ToAccount,
		r.Place,
		r.Name,
		r.Comment,
	}
}

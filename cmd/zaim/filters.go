package main

import (
	"fmt"
	"strings"

	"github.com/yurifrl/gozaim/pkg/csv"
	"github.com/yurifrl/gozaim/pkg/models"
)

type filters struct {
	startDate string
	endDate   string
	minAmount int64
	maxAmount int64
	entryType string
	category  string
	text      string
}

// toFilterFunc validates the flags and returns the record predicate.
func (f *filters) toFilterFunc() (csv.FilterFunc[models.Record], error) {
	start, err := parseOptionalDate(f.startDate)
	if err != nil {
		return nil, fmt.Errorf("--start: %w", err)
	}
	end, err := parseOptionalDate(f.endDate)
	if err != nil {
		return nil, fmt.Errorf("--end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, fmt.Errorf("--end %s is before --start %s", f.endDate, f.startDate)
	}
	return func(r models.Record) bool {
		if !start.IsZero() && r.Date.Before(start) {
			return false
		}
		if !end.IsZero() && r.Date.After(end) {
			return false
		}
		if f.minAmount != 0 && r.Amount < f.minAmount {
			return false
		}
		if f.maxAmount != 0 && r.Amount > f.maxAmount {
			return false
		}
		if f.entryType != "" && !strings.EqualFold(string(r.Type), f.entryType) {
			return false
		}
		if f.category != "" && !strings.EqualFold(r.Category, f.category) && !strings.EqualFold(r.Genre, f.category) {
			return false
		}
		if f.text != "" && !containsFold(f.text, r.Place, r.Name, r.Comment) {
			return false
		}
		return true
	}, nil
}

func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func apply(records []models.Record, keep csv.FilterFunc[models.Record]) []models.Record {
	if keep == nil {
		return records
	}
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

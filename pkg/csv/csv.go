package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

type Record interface {
	Columns() []string
	Values() []string
}

type FilterFunc[T Record] func(T) bool

// Create renders records as CSV with a header row. Records rejected by filter
// are skipped; a nil filter keeps everything.
func Create[T Record](records []T, filter FilterFunc[T]) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var zero T
	if err := w.Write(zero.Columns()); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if filter != nil && !filter(r) {
			continue
		}
		if err := w.Write(r.Values()); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yurifrl/gozaim/pkg/models"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	paymentStyle  = cellStyle.Foreground(lipgloss.Color("9"))
	incomeStyle   = cellStyle.Foreground(lipgloss.Color("10"))
	transferStyle = cellStyle.Foreground(lipgloss.Color("12"))
)

func typeStyle(t models.EntryType) lipgloss.Style {
	switch t {
	case models.Payment:
		return paymentStyle
	case models.Income:
		return incomeStyle
	case models.Transfer:
		return transferStyle
	}
	return cellStyle
}

// renderTable writes rows under headers. rowStyle may be nil.
func renderTable(w io.Writer, headers []string, rows [][]string, rowStyle func(row int) lipgloss.Style) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if rowStyle != nil {
				return rowStyle(row)
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/gozaim/pkg/auth"
	"github.com/yurifrl/gozaim/pkg/models"
	"github.com/yurifrl/gozaim/pkg/zaim"
)

func newClient(ctx context.Context) (*zaim.Client, error) {
	opts := []zaim.Option{zaim.WithStore(credentialStore()), zaim.WithLogger(logger)}
	if cfg.API.BaseURL != "" {
		opts = append(opts, zaim.WithBaseURL(cfg.API.BaseURL))
	}
	return zaim.New(ctx, auth.Credentials{}, opts...)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Show the authenticated user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		user, err := client.Verify(cmd.Context())
		if err != nil {
			return err
		}
		pp.Println(user)
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "List genres, categories and accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		l := client.Lookup()

		var rows [][]string
		for _, c := range client.Categories() {
			rows = append(rows, []string{"category", strconv.FormatInt(c.ID, 10), c.Name, c.Mode})
		}
		for _, g := range client.Genres() {
			category, _ := l.CategoryName(g.CategoryID)
			rows = append(rows, []string{"genre", strconv.FormatInt(g.ID, 10), g.Name, category})
		}
		for _, a := range client.Accounts() {
			rows = append(rows, []string{"account", strconv.FormatInt(a.ID, 10), a.Name, ""})
		}
		return renderTable(cmd.OutOrStdout(), []string{"KIND", "ID", "NAME", "CATEGORY"}, rows, nil)
	},
}

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List the currencies the provider supports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		currencies, err := client.Currencies(cmd.Context())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(currencies))
		for _, c := range currencies {
			rows = append(rows, []string{c.CurrencyCode, c.Unit, c.Name})
		}
		return renderTable(cmd.OutOrStdout(), []string{"CODE", "UNIT", "NAME"}, rows, nil)
	},
}

var listFilter struct {
	mode     string
	category string
	genre    string
	start    string
	end      string
	page     int
	limit    int
}

var moneyCmd = &cobra.Command{
	Use:   "money",
	Short: "List ledger entries through the API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		l := client.Lookup()

		filter := &zaim.Filter{Mapping: true, Mode: listFilter.mode, Page: listFilter.page, Limit: listFilter.limit}
		if listFilter.category != "" {
			if filter.CategoryID, err = l.CategoryID(listFilter.category); err != nil {
				return err
			}
		}
		if listFilter.genre != "" {
			if filter.GenreID, err = l.GenreID(listFilter.genre); err != nil {
				return err
			}
		}
		if filter.StartDate, err = parseOptionalDate(listFilter.start); err != nil {
			return err
		}
		if filter.EndDate, err = parseOptionalDate(listFilter.end); err != nil {
			return err
		}

		entries, err := client.GetData(cmd.Context(), filter)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(entries))
		for _, m := range entries {
			genre, _ := l.GenreName(m.GenreID)
			if genre == "" {
				genre, _ = l.CategoryName(m.CategoryID)
			}
			from, _ := l.AccountName(m.FromAccountID)
			to, _ := l.AccountName(m.ToAccountID)
			rows = append(rows, []string{
				strconv.FormatInt(m.ID, 10), m.Date, m.Mode, strconv.FormatInt(m.Amount, 10),
				genre, from, to, m.Place, m.Comment,
			})
		}
		headers := []string{"ID", "DATE", "MODE", "AMOUNT", "GENRE", "FROM", "TO", "PLACE", "COMMENT"}
		return renderTable(cmd.OutOrStdout(), headers, rows, func(row int) lipgloss.Style {
			return typeStyle(models.EntryType(entries[row].Mode))
		})
	},
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(zaim.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}

func init() {
	moneyCmd.Flags().StringVar(&listFilter.mode, "mode", "", "payment, income or transfer")
	moneyCmd.Flags().StringVar(&listFilter.category, "category", "", "Category name")
	moneyCmd.Flags().StringVar(&listFilter.genre, "genre", "", "Genre name")
	moneyCmd.Flags().StringVar(&listFilter.start, "start", "", "Start date (YYYY-MM-DD)")
	moneyCmd.Flags().StringVar(&listFilter.end, "end", "", "End date (YYYY-MM-DD)")
	moneyCmd.Flags().IntVar(&listFilter.page, "page", 0, "Page number")
	moneyCmd.Flags().IntVar(&listFilter.limit, "limit", 0, "Entries per page")

	rootCmd.AddCommand(verifyCmd, lookupCmd, currenciesCmd, moneyCmd)
}

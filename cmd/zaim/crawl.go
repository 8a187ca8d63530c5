package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yurifrl/gozaim/pkg/auth"
	"github.com/yurifrl/gozaim/pkg/crawler"
	"github.com/yurifrl/gozaim/pkg/csv"
	"github.com/yurifrl/gozaim/pkg/models"
)

var (
	crawlFilters filters
	crawlYear    int
	crawlMonth   int
	crawlFormat  string
	noProgress   bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Scrape one month of entries from the web UI",
	Long: `Logs into the web UI with a browser and reads every entry of the month.

The password is taken from GOZAIM_CRAWLER_PASSWORD or the config file and
prompted for otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if crawlMonth < 1 || crawlMonth > 12 {
			return fmt.Errorf("invalid month %d", crawlMonth)
		}
		switch crawlFormat {
		case "table", "csv", "json":
		default:
			return fmt.Errorf("unknown format %q, want table, csv or json", crawlFormat)
		}

		keep, err := crawlFilters.toFilterFunc()
		if err != nil {
			return err
		}

		opts, err := cfg.CrawlerOptions()
		if err != nil {
			return err
		}
		if !noProgress {
			opts.Progress = os.Stderr
		}

		prompter := auth.NewTerminalPrompter(os.Stdin, os.Stderr)
		user := cfg.Crawler.User
		if user == "" {
			if user, err = prompter.Line("Email: "); err != nil {
				return err
			}
		}
		password := cfg.Crawler.Password
		if password == "" {
			if password, err = prompter.Secret("Password: "); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		c, err := crawler.New(ctx, opts, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Close(); err != nil {
				logger.Warn("failed to close browser", "error", err)
			}
		}()

		if err := c.Login(ctx, user, password); err != nil {
			return err
		}
		records, err := c.GetData(ctx, crawlYear, time.Month(crawlMonth))
		if err != nil {
			return err
		}
		return writeRecords(cmd, records, keep)
	},
}

func writeRecords(cmd *cobra.Command, records []models.Record, keep csv.FilterFunc[models.Record]) error {
	out := cmd.OutOrStdout()
	if crawlFormat == "csv" {
		b, err := csv.Create(records, keep)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	}

	records = apply(records, keep)
	if crawlFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	rows := make([][]string, 0, len(records))
	var total int64
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.Format("01/02"), string(r.Type), r.Category, r.Genre,
			strconv.FormatInt(r.Amount, 10), r.FromAccount, r.ToAccount, r.Place, r.Name, r.Comment,
		})
		if r.Type == models.Payment {
			total += r.Amount
		}
	}
	headers := []string{"DATE", "TYPE", "CATEGORY", "GENRE", "AMOUNT", "FROM", "TO", "PLACE", "NAME", "COMMENT"}
	err := renderTable(out, headers, rows, func(row int) lipgloss.Style {
		return typeStyle(records[row].Type)
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%d entries, %d spent\n", len(records), total)
	return err
}

func init() {
	now := time.Now()
	f := crawlCmd.Flags()
	f.IntVar(&crawlYear, "year", now.Year(), "Year to fetch")
	f.IntVar(&crawlMonth, "month", int(now.Month()), "Month to fetch (1-12)")
	f.StringVarP(&crawlFormat, "format", "o", "table", "Output format: table, csv or json")
	f.BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")

	f.String("user", "", "Login email")
	f.String("preset", "", "Browser preset: default, low-resource or serverless")
	f.Bool("headless", true, "Run the browser without a window")
	f.String("remote-url", "", "DevTools websocket URL of a running browser")
	f.String("exec-path", "", "Browser executable")
	f.Duration("login-timeout", 0, "How long to wait for login")
	f.Duration("page-timeout", 0, "How long to wait for the money list")
	f.Duration("scroll-timeout", 0, "How long to wait for more rows after scrolling")

	f.StringVar(&crawlFilters.startDate, "start", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&crawlFilters.endDate, "end", "", "End date (YYYY-MM-DD)")
	f.Int64Var(&crawlFilters.minAmount, "min", 0, "Minimum amount")
	f.Int64Var(&crawlFilters.maxAmount, "max", 0, "Maximum amount")
	f.StringVar(&crawlFilters.entryType, "type", "", "payment, income or transfer")
	f.StringVar(&crawlFilters.category, "category", "", "Category or genre (case insensitive)")
	f.StringVar(&crawlFilters.text, "search", "", "Match place, name or comment (case insensitive)")

	rootCmd.AddCommand(crawlCmd)
}

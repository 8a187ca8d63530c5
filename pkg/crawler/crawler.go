package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"github.com/yurifrl/gozaim/pkg/models"
)

// ErrTimeout is returned when a page does not reach the expected state in
// time.
var ErrTimeout = errors.New("crawler: timed out waiting for page")

const (
	emailSelector    = "#UserEmail"
	passwordSelector = "#UserPassword"
)

// Crawler reads the monthly money list from the web UI. It drives a single
// browser tab and is not safe for concurrent use.
type Crawler struct {
	driver Driver
	opts   Options
	logger *log.Logger
}

// New launches a browser configured by opts.
func New(ctx context.Context, opts Options, logger *log.Logger) (*Crawler, error) {
	opts = opts.withDefaults()
	driver, err := NewChromeDriver(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("browser started", "headless", opts.Headless, "remote", opts.RemoteURL != "", "schema", opts.Schema.Version())
	return NewWithDriver(driver, opts, logger), nil
}

func NewWithDriver(driver Driver, opts Options, logger *log.Logger) *Crawler {
	return &Crawler{driver: driver, opts: opts.withDefaults(), logger: logger}
}

// Login submits the credentials and waits until the browser leaves the
// login page.
func (c *Crawler) Login(ctx context.Context, user, password string) error {
	c.logger.Info("logging in", "url", c.opts.AuthURL)
	if err := c.driver.Navigate(ctx, c.opts.AuthURL); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.opts.LoginTimeout)
	err := c.driver.WaitVisible(waitCtx, emailSelector)
	cancel()
	if err != nil {
		return fmt.Errorf("login form: %w", c.timeoutErr(ctx, err))
	}

	if err := c.driver.Type(ctx, emailSelector, user); err != nil {
		return fmt.Errorf("failed to fill email: %w", err)
	}
	if err := c.driver.Type(ctx, passwordSelector, password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := c.driver.Submit(ctx, passwordSelector); err != nil {
		return fmt.Errorf("failed to submit login: %w", err)
	}

	err = c.poll(ctx, c.opts.LoginTimeout, func(ctx context.Context) (bool, error) {
		loc, err := c.driver.Location(ctx)
		if err != nil {
			return false, err
		}
		return !strings.HasPrefix(loc, c.opts.AuthURL), nil
	})
	if err != nil {
		return fmt.Errorf("login did not complete: %w", err)
	}
	c.logger.Info("login succeeded")
	return nil
}

// GetData returns every row of the given month in chronological order. Rows
// are rendered lazily, so the list is scrolled until the first visible row
// stops changing. On error no records are returned.
func (c *Crawler) GetData(ctx context.Context, year int, month time.Month) ([]models.Record, error) {
	schema := c.opts.Schema
	days := daysIn(year, month)
	url := fmt.Sprintf("%s/money?month=%04d%02d", strings.TrimRight(c.opts.SiteURL, "/"), year, int(month))

	c.logger.Info("fetching month", "year", year, "month", int(month), "days", days)
	if err := c.driver.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to open money list: %w", err)
	}
	err := c.poll(ctx, c.opts.PageTimeout, func(ctx context.Context) (bool, error) {
		lists, err := c.driver.OuterHTML(ctx, schema.ListSelector())
		return len(lists) > 0, err
	})
	if err != nil {
		return nil, fmt.Errorf("money list %04d/%02d: %w", year, int(month), err)
	}

	bar := c.newProgress(days, fmt.Sprintf("%04d/%02d", year, int(month)))
	var (
		records = []models.Record{}
		seen    = make(map[string]bool)
		current = days
	)
	for {
		rows, err := c.driver.OuterHTML(ctx, schema.RowSelector())
		if err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			id, err := schema.RowID(row)
			if err != nil {
				return nil, err
			}
			if seen[id] {
				continue
			}
			record, err := schema.ParseRow(year, row)
			if err != nil {
				return nil, fmt.Errorf("row %s: %w", id, err)
			}
			seen[id] = true
			records = append(records, record)

			day := record.Date.Day()
			if current > day {
				_ = bar.Add(current - day)
			}
			current = day
		}

		firstID, err := schema.RowID(rows[0])
		if err != nil {
			return nil, err
		}
		more, err := c.scroll(ctx, firstID)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	_ = bar.Add(current)
	_ = bar.Finish()

	reverse(records)
	c.logger.Info("fetched month", "year", year, "month", int(month), "records", len(records))
	return records, nil
}

// scroll brings the last row into view and reports whether the first row
// changed, which is how newly loaded rows show up.
func (c *Crawler) scroll(ctx context.Context, firstID string) (bool, error) {
	schema := c.opts.Schema
	if err := c.driver.ScrollToLast(ctx, schema.RowSelector()); err != nil {
		return false, fmt.Errorf("failed to scroll: %w", err)
	}
	err := c.poll(ctx, c.opts.ScrollTimeout, func(ctx context.Context) (bool, error) {
		rows, err := c.driver.OuterHTML(ctx, schema.RowSelector())
		if err != nil || len(rows) == 0 {
			return false, err
		}
		id, err := schema.RowID(rows[0])
		if err != nil {
			return false, err
		}
		return id != firstID, nil
	})
	if errors.Is(err, ErrTimeout) {
		return false, nil
	}
	return err == nil, err
}

func (c *Crawler) Close() error {
	c.logger.Debug("closing browser")
	return c.driver.Close()
}

// poll evaluates cond every PollInterval until it holds. Running out of
// timeout yields ErrTimeout; cancellation of ctx yields ctx's error.
func (c *Crawler) poll(ctx context.Context, timeout time.Duration, cond func(context.Context) (bool, error)) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()
	for {
		ok, err := cond(waitCtx)
		if err != nil {
			return c.timeoutErr(ctx, err)
		}
		if ok {
			return nil
		}
		select {
		case <-waitCtx.Done():
			return c.timeoutErr(ctx, waitCtx.Err())
		case <-ticker.C:
		}
	}
}

// timeoutErr maps a wait deadline to ErrTimeout unless the caller's own
// context ended.
func (c *Crawler) timeoutErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

type progress interface {
	Add(int) error
	Finish() error
}

type noProgress struct{}

func (noProgress) Add(int) error { return nil }
func (noProgress) Finish() error { return nil }

func (c *Crawler) newProgress(total int, description string) progress {
	if c.opts.Progress == nil {
		return noProgress{}
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.opts.Progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func reverse(records []models.Record) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}

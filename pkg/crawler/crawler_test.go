package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver renders a lazily loaded list: only window rows starting at
// offset are in the document, and scrolling moves the window by step.
type fakeDriver struct {
	mu sync.Mutex

	rows        []string
	window      int
	step        int
	offset      int
	listPresent bool

	formVisible bool
	redirect    string
	location    string
	typed       map[string]string
	visited     []string
	scrolls     int
	closed      bool
}

func newFakeDriver(rows []string, window, step int) *fakeDriver {
	return &fakeDriver{
		rows:        rows,
		window:      window,
		step:        step,
		listPresent: true,
		formVisible: true,
		typed:       map[string]string{},
	}
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.location = url
	d.visited = append(d.visited, url)
	return nil
}

func (d *fakeDriver) WaitVisible(ctx context.Context, _ string) error {
	d.mu.Lock()
	visible := d.formVisible
	d.mu.Unlock()
	if visible {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (d *fakeDriver) Type(_ context.Context, selector, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.typed[selector] += text
	return nil
}

func (d *fakeDriver) Submit(context.Context, string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.redirect != "" {
		d.location = d.redirect
	}
	return nil
}

func (d *fakeDriver) Location(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.location, nil
}

func (d *fakeDriver) OuterHTML(_ context.Context, selector string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch selector {
	case SchemaV1.List:
		if d.listPresent {
			return []string{`<div></div>`}, nil
		}
		return nil, nil
	case SchemaV1.Row:
		if !d.listPresent {
			return nil, nil
		}
		end := min(d.offset+d.window, len(d.rows))
		return append([]string(nil), d.rows[d.offset:end]...), nil
	}
	return nil, fmt.Errorf("unexpected selector %q", selector)
}

func (d *fakeDriver) ScrollToLast(context.Context, string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrolls++
	d.offset = min(d.offset+d.step, max(len(d.rows)-d.window, 0))
	return nil
}

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func testOptions() Options {
	o := DefaultOptions()
	o.LoginTimeout = 50 * time.Millisecond
	o.PageTimeout = 50 * time.Millisecond
	o.ScrollTimeout = 30 * time.Millisecond
	o.PollInterval = 5 * time.Millisecond
	return o
}

func newTestCrawler(d Driver, o Options) *Crawler {
	return NewWithDriver(d, o, log.New(io.Discard))
}

// julyRows returns n rows newest first, the order the web UI shows them.
// Row ids count up with time.
func julyRows(n int) []string {
	rows := make([]string, 0, n)
	for i := 0; i < n; i++ {
		day := max(31-i, 1)
		rows = append(rows, paymentRow(fmt.Sprintf("%03d", n-i), day).html())
	}
	return rows
}

func TestGetDataScrollsThroughMonth(t *testing.T) {
	driver := newFakeDriver(julyRows(35), 20, 15)
	o := testOptions()
	var bar bytes.Buffer
	o.Progress = &bar
	c := newTestCrawler(driver, o)

	records, err := c.GetData(context.Background(), 2023, time.July)
	require.NoError(t, err)
	require.Len(t, records, 35)

	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("%03d", i+1), r.ID)
		if i > 0 {
			assert.False(t, r.Date.Before(records[i-1].Date), "record %d out of order", i)
		}
	}
	assert.Equal(t, time.Date(2023, 7, 31, 0, 0, 0, 0, time.UTC), records[34].Date)
	assert.Equal(t, []string{"https://zaim.net/money?month=202307"}, driver.visited)
	assert.Equal(t, 2, driver.scrolls)
}

func TestGetDataSkipsRowsAlreadySeen(t *testing.T) {
	driver := newFakeDriver(julyRows(12), 10, 1)
	c := newTestCrawler(driver, testOptions())

	records, err := c.GetData(context.Background(), 2023, time.July)
	require.NoError(t, err)
	require.Len(t, records, 12)

	seen := map[string]bool{}
	for _, r := range records {
		assert.False(t, seen[r.ID], "duplicate %s", r.ID)
		seen[r.ID] = true
	}
}

func TestGetDataSinglePage(t *testing.T) {
	driver := newFakeDriver(julyRows(3), 20, 15)
	c := newTestCrawler(driver, testOptions())

	records, err := c.GetData(context.Background(), 2023, time.July)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "001", records[0].ID)
	assert.Equal(t, 1, driver.scrolls)
}

func TestGetDataEmptyMonth(t *testing.T) {
	driver := newFakeDriver(nil, 20, 15)
	c := newTestCrawler(driver, testOptions())

	records, err := c.GetData(context.Background(), 2023, time.February)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, []string{"https://zaim.net/money?month=202302"}, driver.visited)
}

func TestGetDataListNeverAppears(t *testing.T) {
	driver := newFakeDriver(julyRows(3), 20, 15)
	driver.listPresent = false
	c := newTestCrawler(driver, testOptions())

	records, err := c.GetData(context.Background(), 2023, time.July)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestGetDataCancelled(t *testing.T) {
	driver := newFakeDriver(julyRows(3), 20, 15)
	driver.listPresent = false
	c := newTestCrawler(driver, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetData(ctx, 2023, time.July)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestGetDataMarkupChanged(t *testing.T) {
	driver := newFakeDriver([]string{`<div><div>unexpected</div></div>`}, 20, 15)
	c := newTestCrawler(driver, testOptions())

	records, err := c.GetData(context.Background(), 2023, time.July)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrMarkup), "got %v", err)
}

func TestLogin(t *testing.T) {
	t.Run("redirects away from login page", func(t *testing.T) {
		driver := newFakeDriver(nil, 0, 0)
		driver.redirect = "https://zaim.net/home"
		c := newTestCrawler(driver, testOptions())

		require.NoError(t, c.Login(context.Background(), "user@example.com", "hunter2"))
		assert.Equal(t, "user@example.com", driver.typed[emailSelector])
		assert.Equal(t, "hunter2", driver.typed[passwordSelector])
		assert.Equal(t, []string{DefaultAuthURL}, driver.visited)
	})

	t.Run("stays on login page", func(t *testing.T) {
		driver := newFakeDriver(nil, 0, 0)
		c := newTestCrawler(driver, testOptions())

		err := c.Login(context.Background(), "user@example.com", "wrong")
		assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
		assert.Contains(t, err.Error(), "login did not complete")
	})

	t.Run("form never shows", func(t *testing.T) {
		driver := newFakeDriver(nil, 0, 0)
		driver.formVisible = false
		c := newTestCrawler(driver, testOptions())

		err := c.Login(context.Background(), "user@example.com", "hunter2")
		assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
		assert.Empty(t, driver.typed)
	})
}

func TestClose(t *testing.T) {
	driver := newFakeDriver(nil, 0, 0)
	c := newTestCrawler(driver, testOptions())

	require.NoError(t, c.Close())
	assert.True(t, driver.closed)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, daysIn(2023, time.July))
	assert.Equal(t, 28, daysIn(2023, time.February))
	assert.Equal(t, 29, daysIn(2024, time.February))
	assert.Equal(t, 30, daysIn(2023, time.November))
}

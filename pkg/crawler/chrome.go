package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// Driver is the browser surface the crawler needs.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	// Submit presses Enter in the element.
	Submit(ctx context.Context, selector string) error
	Location(ctx context.Context) (string, error)
	// OuterHTML returns the markup of every element matching selector, in
	// document order.
	OuterHTML(ctx context.Context, selector string) ([]string, error)
	ScrollToLast(ctx context.Context, selector string) error
	Close() error
}

type chromeDriver struct {
	ctx         context.Context
	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
}

// NewChromeDriver starts (or attaches to) a browser. The browser lives until
// Close is called or ctx is cancelled.
func NewChromeDriver(ctx context.Context, o Options) (Driver, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if o.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, o.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, allocatorOptions(o)...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return &chromeDriver{ctx: tabCtx, allocCancel: allocCancel, tabCancel: tabCancel}, nil
}

func allocatorOptions(o Options) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	for name, value := range launchFlags(o) {
		opts = append(opts, chromedp.Flag(name, value))
	}
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	return opts
}

// launchFlags returns the command line flags set on top of chromedp's
// defaults. A false boolean removes a default flag. ExtraFlags win over the
// named options.
func launchFlags(o Options) map[string]any {
	flags := map[string]any{"headless": o.Headless}
	if o.DisableGPU {
		flags["disable-gpu"] = true
	}
	if o.NoSandbox {
		flags["no-sandbox"] = true
	}
	if o.DisableDevShm {
		flags["disable-dev-shm-usage"] = true
	}
	if o.WindowWidth > 0 && o.WindowHeight > 0 {
		flags["window-size"] = fmt.Sprintf("%d,%d", o.WindowWidth, o.WindowHeight)
	}
	if o.RemoteDebuggingPort > 0 {
		flags["remote-debugging-port"] = strconv.Itoa(o.RemoteDebuggingPort)
	}
	for name, value := range o.ExtraFlags {
		flags[name] = value
	}
	return flags
}

// run executes actions on the browser tab while honouring the caller's
// cancellation and deadline.
func (d *chromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(d.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, chromedp.Navigate(url))
}

func (d *chromeDriver) WaitVisible(ctx context.Context, selector string) error {
	return d.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (d *chromeDriver) Type(ctx context.Context, selector, text string) error {
	return d.run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

func (d *chromeDriver) Submit(ctx context.Context, selector string) error {
	return d.run(ctx, chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery))
}

func (d *chromeDriver) Location(ctx context.Context) (string, error) {
	var loc string
	err := d.run(ctx, chromedp.Location(&loc))
	return loc, err
}

func (d *chromeDriver) OuterHTML(ctx context.Context, selector string) ([]string, error) {
	sel, err := json.Marshal(selector)
	if err != nil {
		return nil, err
	}
	var out []string
	script := fmt.Sprintf(`Array.from(document.querySelectorAll(%s), e => e.outerHTML)`, sel)
	if err := d.run(ctx, chromedp.Evaluate(script, &out)); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *chromeDriver) ScrollToLast(ctx context.Context, selector string) error {
	sel, err := json.Marshal(selector)
	if err != nil {
		return err
	}
	var count int
	script := fmt.Sprintf(`(() => {
	const rows = document.querySelectorAll(%s);
	if (rows.length > 0) rows[rows.length - 1].scrollIntoView(true);
	return rows.length;
})()`, sel)
	return d.run(ctx, chromedp.Evaluate(script, &count))
}

func (d *chromeDriver) Close() error {
	err := chromedp.Cancel(d.ctx)
	d.tabCancel()
	d.allocCancel()
	return err
}

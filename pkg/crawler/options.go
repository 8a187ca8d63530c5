package crawler

import (
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultAuthURL = "https://auth.zaim.net/"
	DefaultSiteURL = "https://zaim.net"
)

// Options configures the browser launch and the page waits. Launch flags are
// passed through to Chrome without validation.
type Options struct {
	Headless            bool
	DisableGPU          bool
	NoSandbox           bool
	DisableDevShm       bool
	WindowWidth         int
	WindowHeight        int
	RemoteDebuggingPort int
	// RemoteURL is a DevTools websocket endpoint of an already running
	// browser. When set, no local browser is launched and the flags above
	// are ignored.
	RemoteURL  string
	ExecPath   string
	ExtraFlags map[string]any

	AuthURL string
	SiteURL string
	Schema  RowSchema

	LoginTimeout  time.Duration
	PageTimeout   time.Duration
	ScrollTimeout time.Duration
	PollInterval  time.Duration

	// Progress receives a day-of-month progress bar; nil disables it.
	Progress io.Writer
}

func DefaultOptions() Options {
	return Options{
		Headless:      true,
		AuthURL:       DefaultAuthURL,
		SiteURL:       DefaultSiteURL,
		Schema:        SchemaV1,
		LoginTimeout:  15 * time.Second,
		PageTimeout:   15 * time.Second,
		ScrollTimeout: time.Second,
		PollInterval:  100 * time.Millisecond,
	}
}

// LowResourceOptions suits small containers without a GPU or a large
// /dev/shm.
func LowResourceOptions() Options {
	o := DefaultOptions()
	o.DisableGPU = true
	o.NoSandbox = true
	o.DisableDevShm = true
	o.RemoteDebuggingPort = 9222
	o.WindowWidth = 480
	o.WindowHeight = 270
	return o
}

// ServerlessOptions expects a headless-chromium binary in the working
// directory, as packaged for cloud function runtimes.
func ServerlessOptions() Options {
	o := DefaultOptions()
	o.DisableGPU = true
	o.NoSandbox = true
	o.WindowWidth = 480
	o.WindowHeight = 270
	o.ExtraFlags = map[string]any{
		"hide-scrollbars":           true,
		"enable-logging":            true,
		"log-level":                 "0",
		"v":                         "99",
		"single-process":            true,
		"ignore-certificate-errors": true,
	}
	if wd, err := os.Getwd(); err == nil {
		o.ExecPath = filepath.Join(wd, "headless-chromium")
	}
	return o
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AuthURL == "" {
		o.AuthURL = d.AuthURL
	}
	if o.SiteURL == "" {
		o.SiteURL = d.SiteURL
	}
	if o.Schema == nil {
		o.Schema = d.Schema
	}
	if o.LoginTimeout <= 0 {
		o.LoginTimeout = d.LoginTimeout
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = d.PageTimeout
	}
	if o.ScrollTimeout <= 0 {
		o.ScrollTimeout = d.ScrollTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	return o
}

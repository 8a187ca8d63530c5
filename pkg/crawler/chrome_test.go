package crawler

import (
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
)

func TestLaunchFlags(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want map[string]any
	}{
		{
			name: "headed",
			opts: Options{Headless: false},
			want: map[string]any{"headless": false},
		},
		{
			name: "defaults",
			opts: DefaultOptions(),
			want: map[string]any{"headless": true},
		},
		{
			name: "low resource",
			opts: LowResourceOptions(),
			want: map[string]any{
				"headless":              true,
				"disable-gpu":           true,
				"no-sandbox":            true,
				"disable-dev-shm-usage": true,
				"window-size":           "480,270",
				"remote-debugging-port": "9222",
			},
		},
		{
			name: "extra flags override",
			opts: Options{
				Headless:   true,
				NoSandbox:  true,
				ExtraFlags: map[string]any{"no-sandbox": false, "log-level": "0"},
			},
			want: map[string]any{"headless": true, "no-sandbox": false, "log-level": "0"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, launchFlags(tc.opts))
		})
	}
}

func TestServerlessLaunchFlags(t *testing.T) {
	o := ServerlessOptions()
	flags := launchFlags(o)

	assert.Equal(t, true, flags["single-process"])
	assert.Equal(t, true, flags["no-sandbox"])
	assert.Equal(t, "480,270", flags["window-size"])
	assert.NotContains(t, flags, "remote-debugging-port")
}

func TestAllocatorOptions(t *testing.T) {
	base := len(chromedp.DefaultExecAllocatorOptions)

	assert.Len(t, allocatorOptions(Options{Headless: false}), base+1)

	o := LowResourceOptions()
	assert.Len(t, allocatorOptions(o), base+len(launchFlags(o)))

	o.ExecPath = "/opt/chrome/chrome"
	assert.Len(t, allocatorOptions(o), base+len(launchFlags(o))+1)
}

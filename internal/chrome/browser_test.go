// browser_test.go — Tests for launcher flag normalization.

package chrome

import (
	"testing"

	"github.com/go-rod/rod/lib/launcher/flags"
)

func TestSplitFlag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw      string
		name     string
		value    string
		hasValue bool
	}{
		{"disable-gpu", "disable-gpu", "", false},
		{"--disable-gpu", "disable-gpu", "", false},
		{"-disable-gpu", "disable-gpu", "", false},
		{"--window-size=1280,800", "window-size", "1280,800", true},
		{"proxy-server=http://proxy:3128", "proxy-server", "http://proxy:3128", true},
		{"--flag=", "flag", "", true},
		{"", "", "", false},
		{"---", "", "", false},
	}
	for _, c := range cases {
		name, value, hasValue := splitFlag(c.raw)
		if name != c.name || value != c.value || hasValue != c.hasValue {
			t.Errorf("splitFlag(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.raw, name, value, hasValue, c.name, c.value, c.hasValue)
		}
	}
}

func TestNewLauncherAppliesFlags(t *testing.T) {
	t.Parallel()

	l := newLauncher(Config{
		Headless: true,
		Flags:    []string{"--disable-gpu", "window-size=1280,800", ""},
	})

	// Both spellings must have landed under their normalized names; the
	// empty entry must not have produced a flag.
	if !l.Has(flags.Flag("disable-gpu")) {
		t.Error("disable-gpu flag not set on launcher")
	}
	if got := l.Get(flags.Flag("window-size")); got != "1280,800" {
		t.Errorf("window-size = %q, want 1280,800", got)
	}
	if !l.Has(flags.Headless) {
		t.Error("headless flag not set on launcher")
	}
}

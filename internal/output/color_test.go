package output

import (
	"bytes"
	"os"
	"testing"
)

func TestResolveColorMode(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	tests := []struct {
		name      string
		colorMode string
		isTTY     bool
		want      bool
	}{
		{name: "never disables on TTY", colorMode: "never", isTTY: true, want: false},
		{name: "always enables on non-TTY", colorMode: "always", isTTY: false, want: true},
		{name: "auto uses TTY true", colorMode: "auto", isTTY: true, want: true},
		{name: "auto uses TTY false", colorMode: "auto", isTTY: false, want: false},
		{name: "unknown value defaults to auto", colorMode: "bogus", isTTY: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColorMode(tt.colorMode, tt.isTTY)
			if got != tt.want {
				t.Errorf("ResolveColorMode(%q, %v) = %v, want %v", tt.colorMode, tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestResolveColorMode_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ResolveColorMode("auto", true) {
		t.Error("NO_COLOR should disable auto color")
	}
	if !ResolveColorMode("always", false) {
		t.Error("--color=always should override NO_COLOR")
	}
}

func TestIsTTY(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("IsTTY(buffer) should return false")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("IsTTY(regular file) should return false")
	}
}

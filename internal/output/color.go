package output

import (
	"io"
	"os"
)

// ResolveColorMode turns the --color flag into the isTTY value handed to
// NewPrinter. "never" and "always" force the answer; anything else ("auto")
// follows detection, except that a non-empty NO_COLOR disables color.
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "never":
		return false
	case "always":
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTTY
}

// IsTTY reports whether writer is a character device.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

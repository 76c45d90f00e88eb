package cli

import (
	"os"

	"github.com/newshound/newshound/internal/ui"
)

// colorEnabled is false when stdout is not a terminal or NO_COLOR is set.
var colorEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}()

func bold(s string) string {
	if !colorEnabled {
		return s
	}
	return ui.Bold(s)
}

func dim(s string) string {
	if !colorEnabled {
		return s
	}
	return ui.Dim(s)
}

func green(s string) string {
	if !colorEnabled {
		return s
	}
	return ui.Success(s)
}

func yellow(s string) string {
	if !colorEnabled {
		return s
	}
	return ui.Warn(s)
}

func cyan(s string) string {
	if !colorEnabled {
		return s
	}
	return ui.URL(s)
}

func red(s string) string {
	if !colorEnabled {
		return s
	}
	return ui.Error(s)
}

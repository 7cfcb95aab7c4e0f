package build

import (
	"fmt"
	"path/filepath"

	btclogv1 "github.com/btcsuite/btclog"
	"github.com/btcsuite/btclog/v2"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiFaint  = "\033[2m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
)

// styledLevel colors the level tag of a console log line.
func styledLevel(level btclogv1.Level) string {
	var color string
	switch level {
	case btclog.LevelTrace, btclog.LevelDebug:
		color = ansiFaint
	case btclog.LevelInfo:
		color = ansiBlue
	case btclog.LevelWarn:
		color = ansiYellow
	case btclog.LevelError:
		color = ansiRed
	case btclog.LevelCritical:
		color = ansiBold + ansiRed
	default:
		return fmt.Sprintf("[%s]", level)
	}

	return fmt.Sprintf("%s[%s]%s", color, level, ansiReset)
}

// styledCallSite renders the call site as a colored file:line pair.
func styledCallSite(file string, line int) string {
	return fmt.Sprintf("%s%s:%d%s", ansiCyan, filepath.Base(file), line,
		ansiReset)
}

// styledHandlerOptions are the console options used when Style is set.
func styledHandlerOptions() []btclog.HandlerOption {
	return []btclog.HandlerOption{
		btclog.WithStyledLevel(styledLevel),
		btclog.WithStyledCallSite(styledCallSite),
	}
}

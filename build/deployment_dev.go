//go:build dev
// +build dev

package build

import "os"

// Deployment specifies a development build.
const Deployment = Development

// LogLevel is the level used by stdout loggers in development builds. It can
// be raised for a single test run with WALLETKEYS_LOGLEVEL.
var LogLevel = logLevelFromEnv()

func logLevelFromEnv() string {
	if level := os.Getenv("WALLETKEYS_LOGLEVEL"); level != "" {
		return level
	}

	return "info"
}

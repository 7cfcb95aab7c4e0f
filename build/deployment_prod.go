//go:build !dev
// +build !dev

package build

// Deployment specifies a production build.
const Deployment = Production

// LogLevel is the default level for loggers created outside of a
// SubLoggerManager.
const LogLevel = "info"

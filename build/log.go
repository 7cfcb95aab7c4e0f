package build

import (
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btclog/v2"
)

// LogType is the type of logging selected by the build flags.
type LogType byte

const (
	// LogTypeNone indicates no logging.
	LogTypeNone LogType = iota

	// LogTypeStdOut writes all logging directly to stdout.
	LogTypeStdOut

	// LogTypeDefault hands logging to the loggers of the embedding
	// application.
	LogTypeDefault
)

// NewSubLogger constructs a new subsystem log from the current build's
// logging configuration. Library packages call this from init with a nil
// generator, which leaves them disabled until the embedding application
// hands them a real logger through UseLogger.
func NewSubLogger(subsystem string,
	genSubLogger func(string) btclog.Logger) btclog.Logger {

	if Deployment == Development {
		switch LoggingType {
		// Unit tests built with the stdlog tag write straight to
		// stdout at the level given by LogLevel.
		case LogTypeStdOut:
			handler := btclog.NewDefaultHandler(os.Stdout)
			logger := btclog.NewSLogger(
				handler.SubSystem(subsystem),
			)

			level, _ := btclog.LevelFromString(LogLevel)
			logger.SetLevel(level)

			return logger

		case LogTypeNone:
			return btclog.Disabled
		}
	}

	if genSubLogger != nil {
		return genSubLogger(subsystem)
	}

	return btclog.Disabled
}

// SubLoggers is a type that holds a map of subsystem loggers keyed by their
// subsystem name.
type SubLoggers map[string]btclog.Logger

// LeveledSubLogger provides the ability to retrieve the subsystem loggers of
// a logger and set their log levels individually or all at once.
type LeveledSubLogger interface {
	// SubLoggers returns the map of all registered subsystem loggers.
	SubLoggers() SubLoggers

	// SupportedSubsystems returns the sorted names of the registered
	// subsystems.
	SupportedSubsystems() []string

	// SetLogLevel assigns an individual subsystem logger a new log level.
	SetLogLevel(subsystemID string, logLevel string)

	// SetLogLevels assigns all subsystem loggers the same new log level.
	SetLogLevels(logLevel string)
}

// debugLevels is a parsed debug level string.
type debugLevels struct {
	// global is the level for every subsystem, empty if not given.
	global string

	// subsystems maps a subsystem to its own level.
	subsystems map[string]string
}

// ParseAndSetDebugLevels parses a debug level string of the form
// <global-level>,<subsystem>=<level>,... and applies it to logger. The global
// level is optional. Nothing is applied unless the whole string is valid.
func ParseAndSetDebugLevels(level string, logger LeveledSubLogger) error {
	levels, err := parseDebugLevels(level, logger)
	if err != nil {
		return err
	}

	if levels.global != "" {
		logger.SetLogLevels(levels.global)
	}
	for subsystem, subsystemLevel := range levels.subsystems {
		logger.SetLogLevel(subsystem, subsystemLevel)
	}

	return nil
}

func parseDebugLevels(level string,
	logger LeveledSubLogger) (*debugLevels, error) {

	levels := &debugLevels{
		subsystems: make(map[string]string),
	}
	subLoggers := logger.SubLoggers()

	for i, entry := range strings.Split(level, ",") {
		subsystem, subsystemLevel, isPair := strings.Cut(entry, "=")

		// Only the first entry may be a bare global level.
		if !isPair {
			if i != 0 {
				return nil, fmt.Errorf("the specified debug level "+
					"contains an invalid subsystem/level pair "+
					"[%v]", entry)
			}
			if !validLogLevel(entry) {
				return nil, fmt.Errorf("the specified debug level "+
					"[%v] is invalid", entry)
			}

			levels.global = entry
			continue
		}

		if strings.Contains(subsystemLevel, "=") {
			return nil, fmt.Errorf("the specified debug level has "+
				"an invalid format [%v] -- use format "+
				"subsystem1=level1,subsystem2=level2", entry)
		}

		if _, ok := subLoggers[subsystem]; !ok {
			return nil, fmt.Errorf("the specified subsystem [%v] is "+
				"invalid -- supported subsystems are %v",
				subsystem, logger.SupportedSubsystems())
		}

		if !validLogLevel(subsystemLevel) {
			return nil, fmt.Errorf("the specified debug level [%v] "+
				"is invalid", subsystemLevel)
		}

		levels.subsystems[subsystem] = subsystemLevel
	}

	return levels, nil
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace", "debug", "info", "warn", "error", "critical", "off":
		return true
	}

	return false
}

package walletkeys

import (
	"fmt"

	"github.com/btcsuite/btclog/v2"
	"github.com/namewallet/walletkeys/build"
	"github.com/namewallet/walletkeys/keychain"
	"github.com/namewallet/walletkeys/keycrypt"
	"github.com/namewallet/walletkeys/privkey"
	"github.com/namewallet/walletkeys/walletcfg"
	"github.com/namewallet/walletkeys/zonefile"
)

// Subsystem defines the logging code for this subsystem.
const Subsystem = "WKEY"

// log is a logger that is initialized with the btclog.Disabled logger.
var log btclog.Logger

// The default amount of logging is none.
func init() {
	UseLogger(build.NewSubLogger(Subsystem, nil))
}

// DisableLog disables all logging output.
func DisableLog() {
	UseLogger(btclog.Disabled)
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// SetupLoggers initializes all package-global logger variables.
func SetupLoggers(root *build.SubLoggerManager) {
	AddSubLogger(root, Subsystem, UseLogger)
	AddSubLogger(root, keychain.Subsystem, keychain.UseLogger)
	AddSubLogger(root, privkey.Subsystem, privkey.UseLogger)
	AddSubLogger(root, keycrypt.Subsystem, keycrypt.UseLogger)
	AddSubLogger(root, zonefile.Subsystem, zonefile.UseLogger)
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.SubLoggerManager, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := build.NewSubLogger(subsystem, root.GenSubLogger)
	SetSubLogger(root, subsystem, logger, useLoggers...)
}

// SetSubLogger is a helper method to conveniently register the logger of a
// sub system.
func SetSubLogger(root *build.SubLoggerManager, subsystem string,
	logger btclog.Logger, useLoggers ...func(btclog.Logger)) {

	root.RegisterSubLogger(subsystem, logger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}

// InitLogging sets up the console and rotating file loggers described by
// cfg, wires every subsystem to them and applies the configured debug
// levels. The returned writer must be closed on shutdown.
func InitLogging(cfg *walletcfg.Config) (*build.SubLoggerManager,
	*build.RotatingLogWriter, error) {

	logWriter := build.NewRotatingLogWriter()
	if !cfg.Logging.File.Disable {
		err := logWriter.InitLogRotator(
			cfg.Logging.File, cfg.LogFile(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to init log "+
				"rotator: %w", err)
		}
	}

	root := build.NewSubLoggerManager(
		build.NewDefaultLogHandlers(cfg.Logging, logWriter)...,
	)
	SetupLoggers(root)

	err := build.ParseAndSetDebugLevels(cfg.DebugLevel, root)
	if err != nil {
		_ = logWriter.Close()
		return nil, nil, err
	}

	return root, logWriter, nil
}

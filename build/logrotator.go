package build

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/btcsuite/btclog/v2"
	"github.com/jrick/logrotate/rotator"
	"github.com/klauspost/compress/zstd"
)

// RotatingLogWriter is an io.Writer that appends to a log file and rolls it
// over, compressed, once it grows past its size limit. Until InitLogRotator
// succeeds every write is silently dropped.
type RotatingLogWriter struct {
	mu      sync.Mutex
	rotator *rotator.Rotator
}

// NewRotatingLogWriter creates a new file rotating log writer.
//
// NOTE: `InitLogRotator` must be called to set up log rotation after creating
// the writer.
func NewRotatingLogWriter() *RotatingLogWriter {
	return &RotatingLogWriter{}
}

// newCompressor returns the compressor and file suffix of a supported
// compression algorithm.
func newCompressor(name string) (rotator.Compressor, string, error) {
	suffix, ok := logCompressors[name]
	if !ok {
		return nil, "", fmt.Errorf("unknown log compressor: %v", name)
	}

	switch name {
	case Zstd:
		zw, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create zstd "+
				"compressor: %w", err)
		}

		return zw, suffix, nil

	default:
		return gzip.NewWriter(nil), suffix, nil
	}
}

// InitLogRotator initializes the log file rotator to write logs to logFile and
// create roll files in the same directory. It should be called as early on
// startup as possible and must be closed on shutdown by calling `Close`.
func (r *RotatingLogWriter) InitLogRotator(cfg *FileLoggerConfig,
	logFile string) error {

	compressor, suffix, err := newCompressor(cfg.Compressor)
	if err != nil {
		return err
	}

	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logRotator, err := rotator.New(
		logFile, int64(cfg.MaxLogFileSize*1024), false, cfg.MaxLogFiles,
	)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator.SetCompressor(compressor, suffix)

	r.mu.Lock()
	r.rotator = logRotator
	r.mu.Unlock()

	return nil
}

// Write writes the byte slice to the log rotator, if present.
func (r *RotatingLogWriter) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rotator == nil {
		return len(b), nil
	}

	return r.rotator.Write(b)
}

// Close closes the underlying log rotator if it has already been created.
// Later writes are dropped.
func (r *RotatingLogWriter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rotator == nil {
		return nil
	}

	err := r.rotator.Close()
	r.rotator = nil

	return err
}

// NewDefaultLogHandlers returns the console and log file handlers described
// by cfg. Disabled loggers are left out of the returned slice.
func NewDefaultLogHandlers(cfg *LogConfig,
	rotator *RotatingLogWriter) []btclog.Handler {

	var handlers []btclog.Handler

	if !cfg.Console.Disable {
		consoleOpts := cfg.Console.HandlerOptions()
		if cfg.Console.Style {
			consoleOpts = append(
				consoleOpts, styledHandlerOptions()...,
			)
		}

		handlers = append(handlers, btclog.NewDefaultHandler(
			os.Stdout, consoleOpts...,
		))
	}

	if !cfg.File.Disable {
		handlers = append(handlers, btclog.NewDefaultHandler(
			rotator, cfg.File.HandlerOptions()...,
		))
	}

	return handlers
}

// Package log is the process-wide structured logger.
package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	logger     zerolog.Logger
	loggerLock sync.RWMutex
)

func init() {
	logger = newLogger(os.Stderr, zerolog.InfoLevel)
}

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// SetOutput redirects all subsequent log output to w. Terminal files get the
// console format; anything else gets JSON lines.
func SetOutput(w io.Writer) {
	loggerLock.Lock()
	logger = newLogger(w, logger.GetLevel())
	loggerLock.Unlock()
}

// SetLevel sets the global log level at runtime.
func SetLevel(levelStr string) {
	level := parseLogLevel(levelStr)
	loggerLock.Lock()
	logger = logger.Level(level)
	loggerLock.Unlock()
}

// parseLogLevel converts a string log level to zerolog.Level.
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	loggerLock.RLock()
	l := logger
	loggerLock.RUnlock()
	return &l
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return current().Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return current().Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return current().Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return current().Error() }

// Logger returns a copy of the underlying zerolog.Logger.
func Logger() zerolog.Logger {
	return *current()
}

// zerologWriter adapts the logger to io.Writer for stdlib integrations.
type zerologWriter struct{}

func (zerologWriter) Write(p []byte) (int, error) {
	Warn().Msg(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// StdErrorLogger returns a standard library *log.Logger that writes warnings
// through zerolog, for http.Server.ErrorLog and grpclog-style hooks.
func StdErrorLogger() *stdlog.Logger {
	return stdlog.New(zerologWriter{}, "", 0)
}

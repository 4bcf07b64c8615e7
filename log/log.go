// Package log provides the process-wide structured logger used by every
// zkplex package. It wraps zerolog the same way the rest of the ecosystem
// does: a single global logger guarded by a mutex, leveled helpers, and an
// Init that picks the output sink from a string so the CLI can wire
// "-log-output stdout|stderr|<path>" directly to a flag value.
package log

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	// RFC3339Milli mirrors time.RFC3339Nano but with fixed-width millisecond
	// precision, which reads better in a terminal.
	RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"
)

var (
	log   zerolog.Logger
	logMu sync.RWMutex
)

func init() {
	// $ZKPLEX_LOG_LEVEL can override the default even before main() runs
	// pflag.Parse, which matters for package-level tests.
	Init(cmp.Or(os.Getenv("ZKPLEX_LOG_LEVEL"), "info"), "stderr", nil)
}

// Logger returns a copy of the current global logger.
func Logger() *zerolog.Logger {
	logger := getLogger()
	return &logger
}

func getLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return log
}

func setLogger(logger zerolog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	log = logger
}

// panicOnErrorHook panics (after a delay, on a background goroutine) the
// first time an Error-or-above event is logged. Tests use this to turn
// "silently logged but otherwise ignored" errors into hard failures.
type panicOnErrorHook struct {
	TestName string
	Delay    time.Duration
	once     sync.Once
}

func (h *panicOnErrorHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.ErrorLevel {
		return
	}
	h.once.Do(func() {
		delay := h.Delay
		if delay <= 0 {
			delay = time.Second
		}
		panicMsg := fmt.Sprintf("error logged during test %s: %s", h.TestName, msg)
		time.AfterFunc(delay, func() { panic(panicMsg) })
	})
}

// EnablePanicOnError installs a hook on the current logger that panics on
// the first Error-level log line, returning the previous logger so the
// caller can restore it with RestoreLogger.
func EnablePanicOnError(testName string) zerolog.Logger {
	previous := getLogger()
	setLogger(previous.Hook(&panicOnErrorHook{TestName: testName}))
	return previous
}

// RestoreLogger replaces the global logger, typically with a value
// previously returned by EnablePanicOnError.
func RestoreLogger(previous zerolog.Logger) {
	setLogger(previous)
}

// errorLevelWriter filters out everything below warn, for a second sink
// (e.g. a dedicated error log file) that should only see real problems.
type errorLevelWriter struct {
	io.Writer
}

var _ zerolog.LevelWriter = (*errorLevelWriter)(nil)

func (*errorLevelWriter) Write(_ []byte) (int, error) {
	panic("errorLevelWriter: Write called directly, expected WriteLevel")
}

func (w *errorLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < zerolog.WarnLevel {
		return len(p), nil
	}
	return w.Writer.Write(p)
}

// Init (re)configures the global logger. output is "stdout", "stderr", or a
// file path; a path ending in ".json" writes structured JSON to that file
// while still echoing a console-formatted copy to stdout. errorOutput, if
// non-nil, receives a second copy filtered to warn-and-above.
func Init(level, output string, errorOutput io.Writer) {
	var sink io.Writer
	switch output {
	case "stdout":
		sink = consoleWriter(os.Stdout)
	case "stderr":
		sink = consoleWriter(os.Stderr)
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			panic(fmt.Sprintf("log: cannot open output %q: %v", output, err))
		}
		if strings.HasSuffix(output, ".json") {
			sink = zerolog.MultiLevelWriter(f, consoleWriter(os.Stdout))
		} else {
			sink = f
		}
	}

	outputs := []io.Writer{sink}
	if errorOutput != nil {
		outputs = append(outputs, &errorLevelWriter{consoleWriter(errorOutput)})
	}
	out := outputs[0]
	if len(outputs) > 1 {
		out = zerolog.MultiLevelWriter(outputs...)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	logger := zerolog.New(out).With().Timestamp().Caller().Logger()
	zerolog.CallerSkipFrameCount = 3
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return fmt.Sprintf("%s/%s:%d", path.Base(path.Dir(file)), path.Base(file), line)
	}

	switch level {
	case LogLevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LogLevelInfo:
		logger = logger.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LogLevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("log: invalid level %q", level))
	}

	setLogger(logger)
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: RFC3339Milli}
}

// Level returns the current minimum log level as a string.
func Level() string {
	switch l := getLogger().GetLevel(); l {
	case zerolog.DebugLevel:
		return LogLevelDebug
	case zerolog.InfoLevel:
		return LogLevelInfo
	case zerolog.WarnLevel:
		return LogLevelWarn
	default:
		return LogLevelError
	}
}

func Debug(args ...any) { getLogger().Debug().Msg(fmt.Sprint(args...)) }
func Info(args ...any)  { getLogger().Info().Msg(fmt.Sprint(args...)) }
func Warn(args ...any)  { getLogger().Warn().Msg(fmt.Sprint(args...)) }
func Error(args ...any) { getLogger().Error().Msg(fmt.Sprint(args...)) }

func Fatal(args ...any) {
	getLogger().Fatal().Msg(fmt.Sprint(args...) + "\n" + string(debug.Stack()))
	panic("unreachable")
}

func Debugf(template string, args ...any) { getLogger().Debug().Msgf(template, args...) }
func Infof(template string, args ...any)  { getLogger().Info().Msgf(template, args...) }
func Warnf(template string, args ...any)  { getLogger().Warn().Msgf(template, args...) }
func Errorf(template string, args ...any) { getLogger().Error().Msgf(template, args...) }

func Fatalf(template string, args ...any) {
	getLogger().Fatal().Msgf(template+"\n"+string(debug.Stack()), args...)
	panic("unreachable")
}

func Debugw(msg string, keyvalues ...any) { getLogger().Debug().Fields(keyvalues).Msg(msg) }
func Infow(msg string, keyvalues ...any)  { getLogger().Info().Fields(keyvalues).Msg(msg) }
func Warnw(msg string, keyvalues ...any)  { getLogger().Warn().Fields(keyvalues).Msg(msg) }

// Errorw logs msg at error level with err attached via zerolog's dedicated
// error field.
func Errorw(err error, msg string) { getLogger().Error().Err(err).Msg(msg) }

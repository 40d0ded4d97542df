package logger

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ZerologAdapter struct {
	logger zerolog.Logger
	exit   func(int)
}

// Options selects where log entries go.
type Options struct {
	Level LogLevel
	// Writer receives console or JSON output. Defaults to os.Stdout.
	Writer io.Writer
	// JSON writes raw JSON lines instead of the console format.
	JSON bool
	// File, when set, receives a rotated copy of every entry in JSON.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func NewZerolog(writer io.Writer, level LogLevel) *ZerologAdapter {
	logger := zerolog.New(writer).
		Level(level.zerolog()).
		With().
		Timestamp().
		Str("session", uuid.NewString()).
		Logger()

	return &ZerologAdapter{logger: logger, exit: os.Exit}
}

// New builds the application logger from opts. The returned closer releases
// the rotating file, if any.
func New(opts Options) (*ZerologAdapter, io.Closer) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	var out io.Writer = zerolog.ConsoleWriter{Out: w}
	if opts.JSON {
		out = w
	}

	if opts.File == "" {
		return NewZerolog(out, opts.Level), nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    withDefault(opts.MaxSizeMB, 10),
		MaxBackups: withDefault(opts.MaxBackups, 3),
		Compress:   true,
	}
	return NewZerolog(zerolog.MultiLevelWriter(out, rotator), opts.Level), rotator
}

// NewNop discards everything. Fatal still calls the exit function.
func NewNop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop(), exit: os.Exit}
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	tagged(z.logger.Debug(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	tagged(z.logger.Info(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	tagged(z.logger.Warn(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	tagged(z.logger.Error(), component, fields).Err(err).Msg("operation failed")
}

// Fatal writes the entry at fatal level and exits with status 1. zerolog's own
// Fatal would call os.Exit directly, which tests cannot intercept.
func (z *ZerologAdapter) Fatal(component string, err error, fields map[string]interface{}) {
	tagged(z.logger.WithLevel(zerolog.FatalLevel), component, fields).Err(err).Msg("unrecoverable failure")
	z.exit(1)
}

// tagged adds the component name and caller fields to an event. A nil event
// (level disabled) passes through untouched.
func tagged(event *zerolog.Event, component string, fields map[string]interface{}) *zerolog.Event {
	if event == nil {
		return nil
	}
	event = event.Str("component", component)
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	return event
}

// SetExitFunc replaces os.Exit for Fatal.
func (z *ZerologAdapter) SetExitFunc(exit func(int)) {
	z.exit = exit
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

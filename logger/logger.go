package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is a zerolog logger carrying the service name and any fields added
// with WithComponent, WithFields or WithContext.
type Logger struct {
	zl zerolog.Logger
}

// Init builds a logger from cfg and installs it as the global logger.
func Init(cfg Config, serviceName string) *Logger {
	cfg.ApplyDefaults()
	l := New(&cfg, serviceName)
	SetGlobalLogger(l)
	return l
}

// New creates a logger writing to cfg.Output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger that writes to w regardless of cfg.Output.
// An unknown level falls back to info.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		w = consoleWriter(w, cfg.NoColor)
	}
	zc := zerolog.New(w).With().Str("service", serviceName)
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger().Level(level)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

type contextKey string

// ContextWithRequestID stores a transport request ID for later log enrichment.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(FieldRequestID), id)
}

// ContextWithRunID stores an evaluation run ID for later log enrichment.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(FieldRunID), id)
}

// WithContext returns a logger carrying the request and run IDs found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	for _, key := range []string{FieldRequestID, FieldRunID} {
		if v, ok := ctx.Value(contextKey(key)).(string); ok && v != "" {
			zc = zc.Str(key, v)
		}
	}
	return &Logger{zl: zc.Logger()}
}

// WithComponent tags every entry with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger()}
}

// WithFields returns a logger that adds fields to every entry.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

// emit writes one entry. A disabled level yields a nil event, which zerolog
// treats as a no-op.
func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, f := range fields {
		event.Fields(f)
	}
	event.Msg(msg)
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetGlobalLogger replaces the logger used by the package-level functions.
// Passing nil restores the default stderr logger on next use.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the global logger, building an info-level stderr
// logger on first use.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	cfg := Config{}
	cfg.ApplyDefaults()
	l = New(&cfg, "regexprobe")

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = l
	}
	return globalLogger
}

// Debug logs on the global logger.
func Debug(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(msg, fields...)
}

// Warn logs on the global logger.
func Warn(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Warn(msg, fields...)
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

// levelStyles maps a zerolog level name to its console tag and ANSI color.
var levelStyles = map[string]struct{ tag, color string }{
	"trace": {"TRC", "90"},
	"debug": {"DBG", "36"},
	"info":  {"INF", "32"},
	"warn":  {"WRN", "33"},
	"error": {"ERR", "31"},
	"fatal": {"FTL", "35"},
}

func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl := fmt.Sprint(i)
			style, ok := levelStyles[lvl]
			if !ok {
				return "[" + strings.ToUpper(lvl) + "]"
			}
			tag := "[" + style.tag + "]"
			if noColor {
				return tag
			}
			return "\x1b[" + style.color + "m" + tag + "\x1b[0m"
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprint(i) + ":"
		},
	}
}

package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LogLevel selects the minimum severity a Logger emits
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var slogLevels = map[LogLevel]slog.Level{
	DebugLevel: slog.LevelDebug,
	InfoLevel:  slog.LevelInfo,
	WarnLevel:  slog.LevelWarn,
	ErrorLevel: slog.LevelError,
}

// Logger writes structured JSON log lines through slog. Fields accumulate
// through the With* methods; each returns a derived logger and leaves the
// receiver untouched, so a shared base logger is safe to fork per request.
type Logger struct {
	slog *slog.Logger
}

// NewLogger creates a JSON logger writing to output at the given level
func NewLogger(level LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}
	slogLevel, ok := slogLevels[level]
	if !ok {
		slogLevel = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: slogLevel})
	return &Logger{slog: slog.New(handler)}
}

// WithField returns a logger that attaches key=value to every line
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{slog: l.slog.With(key, value)}
}

// WithFields returns a logger that attaches all given fields to every line
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{slog: l.slog.With(args...)}
}

// WithError attaches the error message under the "error" key. A nil error
// returns the receiver unchanged.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *Logger) Debug(message string) { l.slog.Debug(message) }
func (l *Logger) Info(message string)  { l.slog.Info(message) }
func (l *Logger) Warn(message string)  { l.slog.Warn(message) }
func (l *Logger) Error(message string) { l.slog.Error(message) }

type contextKey int

const (
	requestIDKey contextKey = iota
	userIDKey
)

// WithRequestID stores the request ID on the context for downstream log lines
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID from the context, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithUserID stores the authenticated user's id on the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the authenticated user's id from the context, or ""
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

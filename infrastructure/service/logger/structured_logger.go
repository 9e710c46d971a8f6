package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging interface used across the service.
type Logger interface {
	Info(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Debug(ctx context.Context, message string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

type LoggerConfig struct {
	Level       string
	Format      string
	ServiceName string
	// Output defaults to os.Stdout.
	Output io.Writer
}

type structuredLogger struct {
	logger *logrus.Logger
	fields map[string]interface{}
}

type correlationIDKey struct{}

// WithCorrelationID returns a context whose log entries carry id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

func NewStructuredLogger(config LoggerConfig) Logger {
	logrusLogger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrusLogger.SetLevel(level)

	if config.Format == "json" {
		logrusLogger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logrusLogger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	}

	output := config.Output
	if output == nil {
		output = os.Stdout
	}
	logrusLogger.SetOutput(output)

	return &structuredLogger{
		logger: logrusLogger,
		fields: map[string]interface{}{
			"service": config.ServiceName,
		},
	}
}

// NewNopLogger discards everything. Used by tests and tools.
func NewNopLogger() Logger {
	return NewStructuredLogger(LoggerConfig{Level: "panic", Output: io.Discard})
}

func (l *structuredLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.WithFields(l.entryFields(ctx, nil, fields)).Info(message)
}

func (l *structuredLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	l.logger.WithFields(l.entryFields(ctx, err, fields)).Error(message)
}

func (l *structuredLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.WithFields(l.entryFields(ctx, nil, fields)).Warn(message)
}

func (l *structuredLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.WithFields(l.entryFields(ctx, nil, fields)).Debug(message)
}

func (l *structuredLogger) WithFields(fields map[string]interface{}) Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &structuredLogger{
		logger: l.logger,
		fields: newFields,
	}
}

func (l *structuredLogger) entryFields(ctx context.Context, err error, fields map[string]interface{}) logrus.Fields {
	out := make(logrus.Fields, len(l.fields)+len(fields)+3)
	for k, v := range l.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}

	if id := CorrelationID(ctx); id != "" {
		out["correlation_id"] = id
	}
	if err != nil {
		out["error"] = err.Error()
	}

	// skip entryFields and the Info/Error/... wrapper
	if _, file, line, ok := runtime.Caller(2); ok {
		out["caller"] = fmt.Sprintf("%s:%d", file, line)
	}

	return out
}

// LogAuthEvent records an authentication outcome; failures are logged at WARN.
func LogAuthEvent(ctx context.Context, logger Logger, event string, userID, ip string, success bool, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event_type"] = "auth"
	fields["auth_event"] = event
	fields["success"] = success
	if userID != "" {
		fields["user_id"] = userID
	}
	if ip != "" {
		fields["ip"] = ip
	}

	if success {
		logger.Info(ctx, fmt.Sprintf("Auth event: %s", event), fields)
		return
	}
	logger.Warn(ctx, fmt.Sprintf("Auth event failed: %s", event), fields)
}

// LogSecurityEvent logs HIGH at ERROR, MEDIUM at WARN and everything else at INFO.
func LogSecurityEvent(ctx context.Context, logger Logger, event string, severity string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event_type"] = "security"
	fields["security_event"] = event
	fields["severity"] = severity

	message := fmt.Sprintf("Security event: %s", event)

	switch severity {
	case "HIGH":
		logger.Error(ctx, message, nil, fields)
	case "MEDIUM":
		logger.Warn(ctx, message, fields)
	default:
		logger.Info(ctx, message, fields)
	}
}

func LogPerformance(ctx context.Context, logger Logger, operation string, duration time.Duration, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event_type"] = "performance"
	fields["operation"] = operation
	fields["duration_ms"] = duration.Milliseconds()

	logger.Debug(ctx, fmt.Sprintf("Performance: %s took %s", operation, duration), fields)
}

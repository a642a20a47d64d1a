package utils

import (
	"context"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var serviceName = "social-book"

// GenerateTraceId returns a new random id used to correlate the log lines of a request.
func GenerateTraceId() string {
	return uuid.New().String()
}

// SetServiceName sets the service name attached to every log entry.
func SetServiceName(name string) {
	if name != "" {
		serviceName = name
	}
}

// ExtractServiceName returns the service name attached to every log entry.
func ExtractServiceName() string {
	return serviceName
}

// SetLogLevel configures the global logger from the given level name.
func SetLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)

	log.SetOutput(os.Stdout)
}

// LogEntry writes the message to the entry on the given level.
func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": serviceName,
	})

	LogEntry(entry, level, message)
}

// LogMessageWithFields logs the message together with the trace id of the request, if the context carries one.
func LogMessageWithFields(ctx context.Context, level, message string) {
	LogEntry(entryFromContext(ctx), level, message)
}

func LogMessageWithFieldsAndError(ctx context.Context, level, message string, err error) {
	LogEntry(entryFromContext(ctx).WithError(err), level, message)
}

func entryFromContext(ctx context.Context) *log.Entry {
	traceId, ok := ctx.Value(TraceIdKey.String()).(string)
	if !ok {
		traceId = "none"
	}

	return log.WithFields(log.Fields{
		"traceId": traceId,
		"service": serviceName,
	})
}

package log

import (
	"context"
	"os"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
)

// Fields é um alias para logrus.Fields
type Fields logrus.Fields

type Logger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type contextKey string

const (
	CorrelationIDKey contextKey = "correlation_id"
	RunIDKey         contextKey = "run_id"

	correlationIDField = "correlation_id"
	runIDField         = "run_id"

	// RunIDHeader devolve ao cliente o ID da execução iniciada pela requisição
	RunIDHeader = "X-Run-ID"

	runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	runIDSize     = 10
)

// campos mantidos em desenvolvimento, o resto é descartado para deixar o log legível
var developmentFields = map[string]struct{}{
	correlationIDField: {},
	runIDField:         {},
	"method":           {},
	"path":             {},
	"status_code":      {},
	"duration_ms":      {},
	"error":            {},
	"account_id":       {},
	"platform":         {},
}

type logger struct {
	entry *logrus.Entry
}

// L é uma instância global de Logger para uso direto
var L Logger = &logger{entry: logrus.NewEntry(logrus.StandardLogger())}

func IsDevelopment() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "development" || env == "dev"
}

func (l *logger) WithField(key string, value interface{}) Logger {
	if IsDevelopment() {
		if _, ok := developmentFields[key]; !ok {
			return l
		}
	}
	return &logger{entry: l.entry.WithField(key, value)}
}

func (l *logger) WithFields(fields Fields) Logger {
	if IsDevelopment() {
		relevantFields := make(logrus.Fields)
		for k, v := range fields {
			if _, ok := developmentFields[k]; ok {
				relevantFields[k] = v
			}
		}
		if len(relevantFields) == 0 {
			return l
		}
		return &logger{entry: l.entry.WithFields(relevantFields)}
	}

	return &logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logger) WithError(err error) Logger {
	return &logger{entry: l.entry.WithError(err)}
}

// WithContext copia para o log o ID de correlação e o ID da execução de sincronização
func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	var out Logger = l
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		out = out.WithField(correlationIDField, correlationID)
	}
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		out = out.WithField(runIDField, runID)
	}

	return out
}

func (l *logger) Debug(args ...interface{}) {
	l.entry.Debug(args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// WithCorrelationID adiciona um ID de correlação ao contexto
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	correlationID := uuid.New().String()
	return context.WithValue(ctx, CorrelationIDKey, correlationID), correlationID
}

func GetCorrelationID(ctx context.Context) string {
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}
	return ""
}

// WithRunID marca o contexto com um ID curto para a execução de sincronização
func WithRunID(ctx context.Context) (context.Context, string) {
	runID, err := gonanoid.Generate(runIDAlphabet, runIDSize)
	if err != nil {
		runID = uuid.New().String()[:runIDSize]
	}
	return context.WithValue(ctx, RunIDKey, runID), runID
}

// EnsureRunID reaproveita o ID de execução já presente no contexto
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if runID := GetRunID(ctx); runID != "" {
		return ctx, runID
	}
	return WithRunID(ctx)
}

func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// ForContext cria um logger com os IDs presentes no contexto
func ForContext(ctx context.Context) Logger {
	return L.WithContext(ctx)
}

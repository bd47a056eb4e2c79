package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/vfg2006/budget-hunter/pkg/apiErrors"
	"github.com/vfg2006/budget-hunter/pkg/log"
)

// acima disso a requisição comum é registrada como lenta, streams ficam de fora
const slowRequestThreshold = 500 * time.Millisecond

const eventStreamContentType = "text/event-stream"

var now = time.Now

// LoggingMiddleware registra o início e o fim de cada requisição.
// Streams de eventos são registrados pelo tempo de conexão, sem aviso de lentidão.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context())
			r = r.WithContext(ctx)

			base := log.Fields{
				"correlation_id": correlationID,
				"method":         r.Method,
				"path":           r.URL.Path,
			}

			log.L.WithFields(base).WithFields(log.Fields{
				"remote_addr": r.RemoteAddr,
				"query":       r.URL.RawQuery,
				"user_agent":  r.UserAgent(),
			}).Info("Requisição iniciada")

			lrw := newLoggingResponseWriter(w)
			start := now()

			next.ServeHTTP(lrw, r)

			logCompletion(lrw, base, now().Sub(start))
		})
	}
}

func logCompletion(lrw *loggingResponseWriter, base log.Fields, elapsed time.Duration) {
	fields := log.Fields{
		"status_code": lrw.statusCode,
		"duration_ms": elapsed.Milliseconds(),
		"bytes":       lrw.written,
	}
	if runID := lrw.Header().Get(log.RunIDHeader); runID != "" {
		fields["run_id"] = runID
	}

	logger := log.L.WithFields(base).WithFields(fields)

	if lrw.isStream() {
		logger.Infof("Stream encerrado após %s", formatDuration(elapsed))
		return
	}

	message := completionMessage(lrw.statusCode, elapsed)
	switch {
	case lrw.statusCode >= http.StatusInternalServerError:
		logger.Error(message)
	case lrw.statusCode >= http.StatusBadRequest:
		logger.Warn(message)
	default:
		logger.Info(message)
	}

	if elapsed > slowRequestThreshold {
		logger.Warnf("Requisição lenta: %s", formatDuration(elapsed))
	}
}

func completionMessage(status int, elapsed time.Duration) string {
	if log.IsDevelopment() {
		symbol := "✓"
		if status >= http.StatusBadRequest {
			symbol = "✗"
		}
		return fmt.Sprintf("%s Completada em %s", symbol, formatDuration(elapsed))
	}

	switch {
	case status >= http.StatusInternalServerError:
		return "Requisição finalizada com erro"
	case status >= http.StatusBadRequest:
		return "Requisição finalizada com aviso"
	}
	return "Requisição finalizada com sucesso"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d µs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2f s", d.Seconds())
}

// loggingResponseWriter guarda status e tamanho da resposta e repassa o Flush do stream
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(p []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(p)
	lrw.written += int64(n)
	return n, err
}

func (lrw *loggingResponseWriter) Flush() {
	if f, ok := lrw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (lrw *loggingResponseWriter) isStream() bool {
	return strings.HasPrefix(lrw.Header().Get("Content-Type"), eventStreamContentType)
}

// LogPanicMiddleware converte um panic do handler em 500 com a pilha no log
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				logger := log.ForContext(r.Context()).WithFields(log.Fields{
					"error":  err,
					"method": r.Method,
					"path":   r.URL.Path,
				})

				if log.IsDevelopment() {
					logger.Error("❌ PANIC na aplicação")
					fmt.Fprintf(os.Stderr, "\n=== STACK TRACE ===\n%s\n", stack)
				} else {
					logger.WithField("stack_trace", string(stack)).Error("Erro não tratado na aplicação")
				}

				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package fold

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger wraps zap.Logger with fold-specific structured logging.
type Logger struct {
	logger *zap.Logger
}

// NewLogger creates a new Logger. If logger is nil, uses a no-op logger.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.Named("fold")}
}

// FoldCreated logs a fold creation event.
func (l *Logger) FoldCreated(ctx context.Context, document string, start, end int, header string) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, document)
	fields = append(fields,
		zap.Int("start", start),
		zap.Int("end", end),
		zap.String("header", header),
	)
	l.logger.Info("fold created", fields...)
}

// Unfolded logs the spans removed by an unfold operation.
func (l *Logger) Unfolded(ctx context.Context, document string, spans []Span) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, document)
	fields = append(fields, zap.Int("count", len(spans)), zap.Any("spans", spans))
	l.logger.Info("unfolded", fields...)
}

// Refolded logs the outcome of a refold.
func (l *Logger) Refolded(ctx context.Context, document string, restored, skipped int) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, document)
	fields = append(fields,
		zap.Int("restored", restored),
		zap.Int("skipped", skipped),
	)
	l.logger.Info("refolded", fields...)
}

// NothingToUnfold logs an unfold that found no region. pos is -1 for
// unfold-all.
func (l *Logger) NothingToUnfold(ctx context.Context, document string, pos int) {
	if l == nil || l.logger == nil {
		return
	}
	fields := l.baseFields(ctx, document)
	fields = append(fields, zap.Int("pos", pos))
	l.logger.Debug("nothing to unfold", fields...)
}

// NothingToRefold logs a refold with an empty history.
func (l *Logger) NothingToRefold(ctx context.Context, document string) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug("nothing to refold", l.baseFields(ctx, document)...)
}

// Error logs an error with context.
func (l *Logger) Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	allFields := l.traceFields(ctx)
	allFields = append(allFields, zap.Error(err))
	allFields = append(allFields, fields...)
	l.logger.Error(msg, allFields...)
}

// Debug logs a debug message with context.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	allFields := l.traceFields(ctx)
	allFields = append(allFields, fields...)
	l.logger.Debug(msg, allFields...)
}

// baseFields returns common fields for fold events.
func (l *Logger) baseFields(ctx context.Context, document string) []zap.Field {
	fields := []zap.Field{
		zap.String("document", document),
	}
	return append(fields, l.traceFields(ctx)...)
}

// traceFields extracts trace context from the context.
func (l *Logger) traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	fields := []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
	if sc.IsSampled() {
		fields = append(fields, zap.Bool("trace_sampled", true))
	}
	return fields
}

package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Slog returns a *slog.Logger that writes through the underlying zap core,
// so packages built against log/slog share the service's sink and level.
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return slog.New(zapHandler{zap: zap.NewNop()})
	}
	return slog.New(zapHandler{zap: l.Zap()})
}

type zapHandler struct {
	zap    *zap.Logger
	attrs  []zap.Field
	prefix string
}

func (h zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.zap.Core().Enabled(zapLevel(level))
}

func (h zapHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := make([]zap.Field, 0, len(h.attrs)+record.NumAttrs()+2)
	fields = append(fields, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, h.attrField(attr))
		return true
	})
	fields = append(fields, traceFields(ctx)...)

	if ce := h.zap.Check(zapLevel(record.Level), record.Message); ce != nil {
		ce.Time = record.Time
		ce.Write(fields...)
	}

	return nil
}

func (h zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := h
	out.attrs = make([]zap.Field, 0, len(h.attrs)+len(attrs))
	out.attrs = append(out.attrs, h.attrs...)
	for _, attr := range attrs {
		out.attrs = append(out.attrs, h.attrField(attr))
	}

	return out
}

func (h zapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := h
	out.prefix = h.prefix + name + "."

	return out
}

func (h zapHandler) attrField(attr slog.Attr) zap.Field {
	key := h.prefix + attr.Key
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindAny {
		if err, ok := value.Any().(error); ok {
			return zap.NamedError(key, err)
		}
	}

	return zap.Any(key, value.Any())
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

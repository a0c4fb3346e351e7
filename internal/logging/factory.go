package logging

import (
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatText = "text"
	FormatJSON = "json"
)

// New builds a Logger for the given backend and format writing to w.
// Empty backend or format fall back to slog and text.
func New(backend, format string, w io.Writer) (Logger, error) {
	switch format {
	case "", FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	switch backend {
	case "", BackendSlog:
		var h slog.Handler
		if format == FormatJSON {
			h = slog.NewJSONHandler(w, nil)
		} else {
			h = slog.NewTextHandler(w, nil)
		}
		return NewSlogLogger(slog.New(h)), nil

	case BackendZap:
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		var enc zapcore.Encoder
		if format == FormatJSON {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}
		core := zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.InfoLevel)
		return NewZapLogger(zap.New(core)), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewZapLogger(zap.NewNop())
}

// Flush writes out anything a buffering backend still holds. Backends without
// buffering are a no-op.
func Flush(l Logger) error {
	if s, ok := l.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog    = "slog"
	BackendZap     = "zap"
	BackendZerolog = "zerolog"

	FormatText = "text"
	FormatJSON = "json"
)

// Options selects and tunes a Logger implementation.
type Options struct {
	Backend string    // "slog" (default), "zap" or "zerolog"
	Level   string    // debug|info|warn|error, default info
	Format  string    // text|json, default text
	Output  io.Writer // default os.Stderr
}

// New builds a Logger from opts. Unknown backends are an error; unknown
// levels fall back to info.
func New(opts Options) (Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSlog:
		hopts := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
		var h slog.Handler
		if strings.EqualFold(opts.Format, FormatJSON) {
			h = slog.NewJSONHandler(out, hopts)
		} else {
			h = slog.NewTextHandler(out, hopts)
		}
		return NewSlogLogger(slog.New(h)), nil

	case BackendZap:
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		var enc zapcore.Encoder
		if strings.EqualFold(opts.Format, FormatJSON) {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}
		core := zapcore.NewCore(enc, zapcore.AddSync(out), zapLevel(opts.Level))
		return NewZapLogger(zap.New(core)), nil

	case BackendZerolog:
		w := out
		if !strings.EqualFold(opts.Format, FormatJSON) {
			w = zerolog.ConsoleWriter{Out: out, NoColor: true}
		}
		l := zerolog.New(w).Level(zerologLevel(opts.Level)).With().Timestamp().Logger()
		return NewZerologLogger(l), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func slogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func zapLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func zerologLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

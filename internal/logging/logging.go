package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Error(msg string, kv ...any)
	Fatal(msg string, kv ...any)
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// New creates a logger; honors env vars LOG_LEVEL (debug|info|error), LOG_JSON (true|false).
func New(env string) Logger {
	lvl := parseLevel(os.Getenv("LOG_LEVEL"))
	encoding := "json"
	if v := os.Getenv("LOG_JSON"); v == "false" {
		encoding = "console"
	}
	zcfg := zap.NewProductionConfig()
	if env == "dev" || env == "test" {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = encoding
	zcfg.DisableStacktrace = true
	zl, err := zcfg.Build()
	if err != nil {
		// fall back to a no-frills production logger rather than failing startup
		zl = zap.Must(zap.NewProduction())
	}
	return &zapLogger{s: zl.Sugar()}
}

func parseLevel(lvl string) zapcore.Level {
	switch lvl {
	case "debug":
		return zapcore.DebugLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
func (l *zapLogger) Fatal(msg string, kv ...any) { l.s.Fatalw(msg, kv...) }

// Nop returns a logger that discards everything; intended for tests.
func Nop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

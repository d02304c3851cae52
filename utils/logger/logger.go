package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/octabyte/bm-queue-console/enums"
)

type Config struct {
	Level       string
	Env         string
	ServiceName string
	// Encoding: "json" (default) or "console".
	Encoding string
	// OutputPath: where log lines are written. Defaults to stdout. The terminal
	// console points this at a file so logs do not draw over the screen.
	OutputPath string
}

func Init(cfg *Config) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoding := enums.LogEncodingJSON
	if strings.EqualFold(cfg.Encoding, enums.LogEncodingConsole) {
		encoding = enums.LogEncodingConsole
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	output := "stdout"
	if cfg.OutputPath != "" {
		output = cfg.OutputPath
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(getLogLevelFromString(cfg.Level)),
		Development:       false,
		DisableCaller:     false,
		DisableStacktrace: false,
		Sampling:          nil,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"env":     cfg.Env,
			"service": cfg.ServiceName,
		},
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	logger = logger.WithOptions(zap.AddCallerSkip(1))

	zap.ReplaceGlobals(zap.Must(logger, err))
}

// Named returns a child of the global logger for a component. The caller skip
// added in Init is undone so call sites are reported correctly.
func Named(name string) *zap.Logger {
	return zap.L().WithOptions(zap.AddCallerSkip(-1)).Named(name)
}

func LogDebug(msg string, fields ...zap.Field) {
	zap.L().Debug(msg, fields...)
}

func LogDebugf(msg string, args ...interface{}) {
	logf(zapcore.DebugLevel, msg, args)
}

func LogInfo(msg string, fields ...zap.Field) {
	zap.L().Info(msg, fields...)
}

func LogInfof(msg string, args ...interface{}) {
	logf(zapcore.InfoLevel, msg, args)
}

func LogWarn(msg string, fields ...zap.Field) {
	zap.L().Warn(msg, fields...)
}

func LogWarnf(msg string, args ...interface{}) {
	logf(zapcore.WarnLevel, msg, args)
}

func LogError(msg string, fields ...zap.Field) {
	zap.L().Error(msg, fields...)
}

func LogErrorf(msg string, args ...interface{}) {
	logf(zapcore.ErrorLevel, msg, args)
}

// logf sits one frame deeper than the other helpers, so it adds a caller skip.
func logf(lvl zapcore.Level, msg string, args []interface{}) {
	l := zap.L().WithOptions(zap.AddCallerSkip(1))
	if !l.Core().Enabled(lvl) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.Log(lvl, msg)
}

func getLogLevelFromString(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case enums.LogLevelDebug, "dbg":
		return zapcore.DebugLevel
	case enums.LogLevelInfo, "information":
		return zapcore.InfoLevel
	case enums.LogLevelWarn, "warning":
		return zapcore.WarnLevel
	case enums.LogLevelError, "err":
		return zapcore.ErrorLevel
	case enums.LogLevelFatal:
		return zapcore.FatalLevel
	case enums.LogLevelPanic:
		return zapcore.PanicLevel
	default:
		return zapcore.InfoLevel
	}
}

func Sync() {
	_ = zap.L().Sync()
}

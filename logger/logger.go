package logger

import (
	"time"

	"github.com/cprobe/yshutdown/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a no-op until Build runs, so packages can log from tests.
var Logger = zap.NewNop().Sugar()

func Build(c config.LogConfig) (func(), error) {
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.EncoderConfig.TimeKey = "ts"
	loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	loggerConfig.DisableStacktrace = true
	loggerConfig.Sampling = nil

	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	loggerConfig.Level = zap.NewAtomicLevelAt(level)

	if c.Format == "console" {
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	loggerConfig.Encoding = c.Format
	loggerConfig.OutputPaths = []string{c.Output}
	loggerConfig.ErrorOutputPaths = []string{"stderr"}
	loggerConfig.InitialFields = c.Fields

	logger, err := loggerConfig.Build()
	if err != nil {
		return func() {}, err
	}

	Logger = logger.Sugar()

	return func() { _ = Logger.Sync() }, nil
}

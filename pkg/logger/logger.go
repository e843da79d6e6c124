package logger

import (
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// One logger per concern, each writing JSON to its own file under logs/.
var (
	ErrorLogger    *zap.Logger
	AuditLogger    *zap.Logger
	RequestLogger  *zap.Logger
	SecurityLogger *zap.Logger
	SystemLogger   *zap.Logger
)

func newLogger(filePath string, level zapcore.Level) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(file),
		level,
	)
	return zap.New(core), nil
}

func InitLoggers() {
	targets := []struct {
		dest  **zap.Logger
		path  string
		level zapcore.Level
	}{
		{&ErrorLogger, "logs/errors.log", zapcore.ErrorLevel},
		{&AuditLogger, "logs/audit.log", zapcore.InfoLevel},
		{&RequestLogger, "logs/request.log", zapcore.InfoLevel},
		{&SecurityLogger, "logs/security.log", zapcore.WarnLevel},
		{&SystemLogger, "logs/system.log", zapcore.InfoLevel},
	}
	for _, t := range targets {
		l, err := newLogger(t.path, t.level)
		if err != nil {
			log.Fatalf("Cannot create logger for %s: %v", t.path, err)
		}
		*t.dest = l
	}
}

func SyncLoggers() {
	_ = ErrorLogger.Sync()
	_ = AuditLogger.Sync()
	_ = RequestLogger.Sync()
	_ = SecurityLogger.Sync()
	_ = SystemLogger.Sync()
}

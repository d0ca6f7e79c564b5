package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// ZapLogger lets watermill write through the application's zap logger.
type ZapLogger struct {
	log *zap.Logger
}

func NewZapLogger(log *zap.Logger) watermill.LoggerAdapter {
	return &ZapLogger{log: log.With(zap.String("component", "events"))}
}

func (l *ZapLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (l *ZapLogger) Info(msg string, fields watermill.LogFields) {
	l.log.Info(msg, zapFields(fields)...)
}

func (l *ZapLogger) Debug(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, zapFields(fields)...)
}

// Trace is folded into debug, zap has no lower level.
func (l *ZapLogger) Trace(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, zapFields(fields)...)
}

func (l *ZapLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &ZapLogger{log: l.log.With(zapFields(fields)...)}
}

func zapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	for key, value := range fields {
		out = append(out, zap.Any(key, value))
	}
	return out
}

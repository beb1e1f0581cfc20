package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/dmitrijs2005/assignhub/internal/logging"
)

// loggerAdapter lets watermill log through logging.Logger.
type loggerAdapter struct {
	log    logging.Logger
	fields watermill.LogFields
}

func NewLoggerAdapter(log logging.Logger) watermill.LoggerAdapter {
	return &loggerAdapter{log: log}
}

func (l *loggerAdapter) args(fields watermill.LogFields) []any {
	all := l.fields.Add(fields)
	out := make([]any, 0, len(all)*2)
	for k, v := range all {
		out = append(out, k, v)
	}
	return out
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.log.Error(context.Background(), msg, append(l.args(fields), "error", err)...)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.log.Info(context.Background(), msg, l.args(fields)...)
}

func (l *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.log.Debug(context.Background(), msg, l.args(fields)...)
}

// Trace goes to debug; slog has no lower level.
func (l *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.log.Debug(context.Background(), msg, l.args(fields)...)
}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{log: l.log, fields: l.fields.Add(fields)}
}

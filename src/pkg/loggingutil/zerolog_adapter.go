package loggingutil

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologAdapter adapts zerolog.Logger to the Logger interface
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps logger
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Zerolog exposes the wrapped logger
func (z *ZerologAdapter) Zerolog() zerolog.Logger {
	return z.logger
}

func (z *ZerologAdapter) Debug(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Debug(), msg, keysAndValues)
}

func (z *ZerologAdapter) Info(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Info(), msg, keysAndValues)
}

func (z *ZerologAdapter) Warn(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Warn(), msg, keysAndValues)
}

func (z *ZerologAdapter) Error(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Error(), msg, keysAndValues)
}

func (z *ZerologAdapter) Fatal(msg string, keysAndValues ...interface{}) {
	z.emit(z.logger.Fatal(), msg, keysAndValues)
}

// With returns a new logger with the given key-value pairs added to the logging context
func (z *ZerologAdapter) With(keysAndValues ...interface{}) Logger {
	if len(keysAndValues) == 0 {
		return z
	}
	zctx := z.logger.With()
	forEachPair(keysAndValues, func(key string, value interface{}) {
		if err, ok := value.(error); ok {
			zctx = zctx.AnErr(key, err)
			return
		}
		zctx = zctx.Interface(key, value)
	})
	return &ZerologAdapter{logger: zctx.Logger()}
}

// emit is a no-op for events disabled by the current level.
func (z *ZerologAdapter) emit(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	if event == nil {
		return
	}
	forEachPair(keysAndValues, func(key string, value interface{}) {
		if err, ok := value.(error); ok {
			event.AnErr(key, err)
			return
		}
		event.Interface(key, value)
	})
	event.Msg(msg)
}

// forEachPair walks alternating keys and values; a dangling key gets "MISSING".
func forEachPair(keysAndValues []interface{}, fn func(key string, value interface{})) {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		var value interface{} = "MISSING"
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		fn(key, value)
	}
}

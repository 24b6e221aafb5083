package codec

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the codec package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

var nopLogger = zap.NewNop()

// SetLogger configures the codec package's logger. A nil logger restores
// the no-op default. It is safe to call while other goroutines log; entries
// already being written keep the previous logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

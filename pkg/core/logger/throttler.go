package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Throttler logs a repeating condition at Warn once per interval and key, and at Debug otherwise.
type Throttler struct {
	log      *zap.Logger
	interval time.Duration
	limiters sync.Map
}

// NewThrottler returns a Throttler; a zero interval means one minute.
func NewThrottler(log *zap.Logger, interval time.Duration) *Throttler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Throttler{log: log, interval: interval}
}

func (t *Throttler) Warn(key, msg string, fields ...zap.Field) {
	if t.limiter(key).Allow() {
		t.log.Warn(msg, fields...)
		return
	}
	t.log.Debug(msg, fields...)
}

func (t *Throttler) limiter(key string) *rate.Limiter {
	if l, ok := t.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := t.limiters.LoadOrStore(key, rate.NewLimiter(rate.Every(t.interval), 1))
	return l.(*rate.Limiter)
}

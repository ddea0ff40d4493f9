package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultLimits holds the per-platform request budgets in requests per minute.
//
//nolint:gochecknoglobals // Read-only defaults
var DefaultLimits = map[string]int{
	"kalshi":     10,
	"predictit":  20,
	"polymarket": 30,
	"metaculus":  60,
	"manifold":   100,
}

// DefaultRPM applies to platforms with no configured limit.
const DefaultRPM = 60

// Limiter enforces a per-platform token bucket. Each bucket starts full with
// burst = rpm and refills continuously at rpm/60 tokens per second; callers
// sleep inside rate.Limiter.Wait, outside the map lock, so concurrent
// acquirers never double-spend and never serialize their sleeps.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limits   map[string]int
	logger   *zap.Logger
}

// New creates a limiter. Entries in overrides replace the defaults; platforms
// absent from both fall back to DefaultRPM.
func New(overrides map[string]int, logger *zap.Logger) *Limiter {
	limits := make(map[string]int, len(DefaultLimits))
	for platform, rpm := range DefaultLimits {
		limits[platform] = rpm
	}
	for platform, rpm := range overrides {
		limits[platform] = rpm
	}

	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		limits:   limits,
		logger:   logger,
	}
}

// Wait blocks until a token is available for the platform or the context is
// cancelled. Cancellation returns the context error; tokens are never
// returned, they refill naturally.
func (l *Limiter) Wait(ctx context.Context, platform string) error {
	limiter := l.limiterFor(platform)

	start := time.Now()
	err := limiter.Wait(ctx)
	waited := time.Since(start)

	WaitDurationSeconds.WithLabelValues(platform).Observe(waited.Seconds())

	if err != nil {
		return err
	}

	if waited > 100*time.Millisecond {
		l.logger.Debug("rate-limit-waited",
			zap.String("platform", platform),
			zap.Duration("waited", waited))
	}

	return nil
}

// Limit returns the configured requests-per-minute budget for a platform.
func (l *Limiter) Limit(platform string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if rpm, ok := l.limits[platform]; ok {
		return rpm
	}
	return DefaultRPM
}

func (l *Limiter) limiterFor(platform string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[platform]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another goroutine may have created it between the locks.
	if limiter, ok = l.limiters[platform]; ok {
		return limiter
	}

	rpm := l.limits[platform]
	if rpm == 0 {
		rpm = DefaultRPM
	}

	limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
	l.limiters[platform] = limiter

	l.logger.Debug("rate-limiter-created",
		zap.String("platform", platform),
		zap.Int("rpm", rpm))

	return limiter
}

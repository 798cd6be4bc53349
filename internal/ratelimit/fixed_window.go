package ratelimit

import (
	"sync"
	"time"

	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/config"
	"github.com/smallbiznis/recouvro/internal/observability/metrics"
)

// FixedWindow is an in-memory per-key fixed-window counter. Windows are
// pruned lazily on access.
type FixedWindow struct {
	enabled bool
	window  time.Duration
	max     int
	clock   clock.Clock
	metrics *metrics.Metrics

	mu      sync.Mutex
	windows map[string]*windowState
}

type windowState struct {
	start time.Time
	count int
}

func New(cfg config.Config, clk clock.Clock, m *metrics.Metrics) *FixedWindow {
	limit := cfg.RateLimit
	return &FixedWindow{
		enabled: limit.Enabled && limit.Max > 0 && limit.Window > 0,
		window:  limit.Window,
		max:     limit.Max,
		clock:   clk,
		metrics: m,
		windows: make(map[string]*windowState),
	}
}

func (l *FixedWindow) Enabled() bool {
	return l != nil && l.enabled
}

// Allow consumes one slot for the subject inside the endpoint's current
// window. The endpoint labels the metric, the subject isolates callers.
func (l *FixedWindow) Allow(endpoint, subject string) bool {
	if !l.Enabled() {
		return true
	}

	key := endpoint + ":" + subject
	now := l.clock.Now()

	l.mu.Lock()
	state, ok := l.windows[key]
	if !ok || now.Sub(state.start) >= l.window {
		state = &windowState{start: now}
		l.windows[key] = state
		l.prune(now)
	}
	state.count++
	allowed := state.count <= l.max
	l.mu.Unlock()

	if allowed {
		l.metrics.RecordRateLimitAllowed(endpoint)
	} else {
		l.metrics.RecordRateLimitDenied(endpoint)
	}
	return allowed
}

// prune drops expired windows. Called with the mutex held.
func (l *FixedWindow) prune(now time.Time) {
	for key, state := range l.windows {
		if now.Sub(state.start) >= l.window {
			delete(l.windows, key)
		}
	}
}

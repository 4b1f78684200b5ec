package stats

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ghagga-dashboard/models"
)

// Loader keeps the latest StatsState. It starts out loading; the first
// refresh settles it. A failed refresh records the error text and keeps the
// last good stats.
type Loader struct {
	source   Source
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger
	now      func() time.Time

	// refreshMu runs refreshes one at a time so a slow fetch cannot land
	// after a newer one.
	refreshMu sync.Mutex

	mu    sync.RWMutex
	state models.StatsState
	subs  map[chan models.StatsState]struct{}
}

func NewLoader(source Source, interval time.Duration, log *zap.Logger) *Loader {
	return &Loader{
		source:   source,
		interval: interval,
		timeout:  15 * time.Second,
		log:      log,
		now:      time.Now,
		state:    models.StatsState{Loading: true},
		subs:     make(map[chan models.StatsState]struct{}),
	}
}

// Run refreshes immediately and then on every interval until ctx is done.
func (l *Loader) Run(ctx context.Context) {
	l.Refresh(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Refresh(ctx)
		}
	}
}

func (l *Loader) Refresh(ctx context.Context) {
	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	sum, err := l.source.Summary(ctx)

	l.mu.Lock()
	next := models.StatsState{
		Stats:     l.state.Stats,
		UpdatedAt: l.now(),
	}
	if err != nil {
		next.Error = err.Error()
	} else {
		next.Stats = sum
	}
	l.state = next
	subs := make([]chan models.StatsState, 0, len(l.subs))
	for ch := range l.subs {
		subs = append(subs, ch)
	}
	l.mu.Unlock()

	if err != nil {
		l.log.Warn("stats refresh failed", zap.Error(err))
	} else {
		l.log.Debug("stats refreshed", zap.Int("total_reviews", sum.TotalReviews))
	}

	for _, ch := range subs {
		// A slow subscriber only ever holds the newest state.
		select {
		case ch <- next:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
}

func (l *Loader) Snapshot() models.StatsState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Subscribe returns a channel receiving every new state and a cancel func.
func (l *Loader) Subscribe() (<-chan models.StatsState, func()) {
	ch := make(chan models.StatsState, 1)

	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			l.mu.Unlock()
		})
	}
}

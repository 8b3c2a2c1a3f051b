package reservation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sweeper releases expired holds and reports how many it freed.
type Sweeper interface {
	RunExpirySweep(ctx context.Context) (int, error)
}

// Reaper periodically converts expired holds back to available. It is an
// explicit owned task with a start/stop lifecycle rather than an ambient
// timer: the application constructs it on startup and stops it on shutdown.
//
// The cadence is an operational knob, not a correctness requirement: expiry
// is also enforced lazily inside reserve/confirm, and sweeps are idempotent,
// so overlapping or missed runs cause no harm.
type Reaper struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// DefaultReapInterval is the business default between sweeps.
const DefaultReapInterval = 2 * time.Minute

func NewReaper(sweeper Sweeper, interval time.Duration, logger *slog.Logger) *Reaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}

	return &Reaper{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. Calling Start on a running reaper is a no-op.
func (r *Reaper) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.logger.Info("starting expiry reaper", "interval", r.interval)

	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop terminates the loop and waits for an in-flight sweep to finish.
func (r *Reaper) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()

	r.logger.Info("stopped expiry reaper")
}

func (r *Reaper) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(ctx)
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweep runs one pass. Errors are logged and swallowed: the store being
// briefly unavailable must never kill the service, the next tick simply
// retries.
func (r *Reaper) sweep(ctx context.Context) {
	runID := uuid.NewString()

	released, err := r.sweeper.RunExpirySweep(ctx)
	if err != nil {
		r.logger.Error("expiry sweep failed", "run_id", runID, "error", err)
		return
	}

	if released > 0 {
		r.logger.Info("expiry sweep released holds", "run_id", runID, "released", released)
	}
}

package simulator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Run lifecycle errors.
var (
	ErrRunActive   = errors.New("a simulation run is already active")
	ErrNoActiveRun = errors.New("no active simulation run")
)

// Run states.
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateCancelled = "cancelled"
	StateFailed    = "failed"
)

// Status is a point-in-time snapshot of the runner. Deadline is the moment
// the run expires naturally.
type Status struct {
	State     string     `json:"state"`
	Sent      int        `json:"sent"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// FinishFunc is invoked once when a run ends, with the final summary and the
// terminal state.
type FinishFunc func(ctx context.Context, summary Summary, state string)

// Runner owns the background simulation goroutine. At most one run is active
// at a time; a second Start while one is running returns ErrRunActive.
type Runner struct {
	sim      *Simulator
	logger   *slog.Logger
	onFinish FinishFunc

	mu        sync.Mutex
	state     string
	sent      int
	startedAt *time.Time
	deadline  *time.Time
	endedAt   *time.Time
	runErr    error
	cancel    context.CancelFunc
}

// NewRunner creates a runner. onFinish may be nil.
func NewRunner(sim *Simulator, logger *slog.Logger, onFinish FinishFunc) *Runner {
	return &Runner{
		sim:      sim,
		logger:   logger,
		onFinish: onFinish,
		state:    StateIdle,
	}
}

// Start launches a run in the background. The run outlives the caller's
// request context; only Stop or the configured maximum duration ends it.
func (r *Runner) Start(cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRunning {
		return ErrRunActive
	}

	runCtx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	maxDuration := cfg.MaxDuration
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	deadline := now.Add(maxDuration)

	r.state = StateRunning
	r.sent = 0
	r.startedAt = &now
	r.deadline = &deadline
	r.endedAt = nil
	r.runErr = nil
	r.cancel = cancel

	go r.run(runCtx, cfg)

	return nil
}

func (r *Runner) run(ctx context.Context, cfg Config) {
	summary, err := r.sim.Run(ctx, cfg, func(p Progress) {
		r.mu.Lock()
		r.sent = p.Seq
		r.mu.Unlock()
	})

	state := StateCompleted
	switch {
	case errors.Is(err, context.Canceled):
		state = StateCancelled
	case err != nil:
		state = StateFailed
	}

	now := time.Now()
	r.mu.Lock()
	r.state = state
	r.sent = summary.Sent
	r.endedAt = &now
	r.runErr = err
	r.cancel = nil
	r.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("simulation run failed", slog.Any("error", err), slog.Int("sent", summary.Sent))
	} else {
		r.logger.Info("simulation run ended", slog.String("state", state), slog.Int("sent", summary.Sent))
	}

	if r.onFinish != nil {
		r.onFinish(context.Background(), summary, state)
	}
}

// Stop cancels the active run. The run goroutine finishes asynchronously.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRunning || r.cancel == nil {
		return ErrNoActiveRun
	}
	r.cancel()
	return nil
}

// Status returns a snapshot of the current or most recent run.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Status{
		State:     r.state,
		Sent:      r.sent,
		StartedAt: r.startedAt,
		Deadline:  r.deadline,
		EndedAt:   r.endedAt,
	}
	if r.runErr != nil && !errors.Is(r.runErr, context.Canceled) {
		st.Error = r.runErr.Error()
	}
	return st
}

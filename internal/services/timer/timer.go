// Package timer implements the anti-cheat trail timing state machine.
// One Timer exists per player per trail; the owning session drives every
// transition, so a Timer needs no locking of its own.
package timer

import (
	"log/slog"
	"time"

	"github.com/nohumanman/desc-comp-toolkit/internal/dependencies/clock"
)

// State is the lifecycle position of a trail run.
type State int

const (
	// StateIdle: created, no Start checkpoint seen yet.
	StateIdle State = iota
	// StateRunning: Start checkpoint seen, run in progress.
	StateRunning
	// StateFinished: terminal, run completed.
	StateFinished
	// StateInvalidated: terminal, run disqualified.
	StateInvalidated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateInvalidated:
		return "invalidated"
	}
	return "unknown"
}

// Result carries the details of a finished run that qualifies for
// leaderboard submission.
type Result struct {
	Trail       string
	Time        float64
	Checkpoints int
	StartSpeed  float64
}

// Timer tracks one run attempt on one trail.
type Timer struct {
	trail string
	clock clock.Clock
	log   *slog.Logger

	state            State
	totalCheckpoints int
	checkpointsSeen  int
	startingSpeed    float64
	startedAt        time.Time
	lastClientTime   float64
	invalidReason    string
	boundaries       map[string]struct{}
}

// New creates an idle Timer for the named trail.
func New(trail string, clk clock.Clock, logger *slog.Logger) *Timer {
	return &Timer{
		trail:      trail,
		clock:      clk,
		log:        logger.With(slog.String("trail", trail)),
		state:      StateIdle,
		boundaries: make(map[string]struct{}),
	}
}

// Trail returns the trail name this timer tracks.
func (t *Timer) Trail() string { return t.trail }

// State returns the timer's current lifecycle state.
func (t *Timer) State() State { return t.state }

// TotalCheckpoints returns the checkpoint count the client declared.
func (t *Timer) TotalCheckpoints() int { return t.totalCheckpoints }

// LastClientTime returns the most recent client-reported elapsed time.
func (t *Timer) LastClientTime() float64 { return t.lastClientTime }

// InvalidReason returns the invalidation reason, or "" if the run is
// still valid.
func (t *Timer) InvalidReason() string { return t.invalidReason }

// StartingSpeed returns the recorded starting speed.
func (t *Timer) StartingSpeed() float64 { return t.startingSpeed }

// SetTotalCheckpoints records the total the client declared with the
// latest checkpoint event.
func (t *Timer) SetTotalCheckpoints(total int) {
	t.totalCheckpoints = total
}

// SetStartingSpeed records the speed the player carried into the start
// gate. Bookkeeping only; speed policy belongs to the session.
func (t *Timer) SetStartingSpeed(speed float64) {
	t.startingSpeed = speed
}

// Start begins a run: Idle -> Running. A Start while already Running
// restarts the attempt in place; terminal states ignore it.
func (t *Timer) Start(totalCheckpoints int) {
	switch t.state {
	case StateFinished, StateInvalidated:
		return
	}
	t.state = StateRunning
	t.totalCheckpoints = totalCheckpoints
	t.checkpointsSeen = 1
	t.lastClientTime = 0
	t.startedAt = t.clock.Now()
	t.log.Debug("timer started", slog.Int("total_checkpoints", totalCheckpoints))
}

// Checkpoint records an intermediate gate while Running. The
// client-reported time is accepted and retained for storage-side
// validation; it does not change state.
func (t *Timer) Checkpoint(clientTime float64) {
	if t.state != StateRunning {
		return
	}
	t.checkpointsSeen++
	t.lastClientTime = clientTime
}

// Finish ends a run: Running -> Finished. The returned Result is valid
// only when ok is true: the run was never invalidated and the gates
// passed match the declared total. Terminal states and Idle return
// ok false without transitioning.
func (t *Timer) Finish(clientTime float64) (Result, bool) {
	if t.state != StateRunning {
		return Result{}, false
	}
	t.state = StateFinished
	t.checkpointsSeen++
	t.lastClientTime = clientTime

	if t.checkpointsSeen != t.totalCheckpoints {
		t.log.Warn("run finished with checkpoint mismatch",
			slog.Int("seen", t.checkpointsSeen),
			slog.Int("declared", t.totalCheckpoints),
		)
		return Result{}, false
	}

	t.log.Info("run finished",
		slog.Float64("client_time", clientTime),
		slog.Duration("server_elapsed", t.clock.Since(t.startedAt)),
	)
	return Result{
		Trail:       t.trail,
		Time:        clientTime,
		Checkpoints: t.totalCheckpoints,
		StartSpeed:  t.startingSpeed,
	}, true
}

// Invalidate disqualifies the run: Idle or Running -> Invalidated.
// Idempotent; repeated invalidation keeps the first reason. A Finished
// run cannot be invalidated retroactively.
func (t *Timer) Invalidate(reason string) {
	t.log.Info("timer invalidated", slog.String("reason", reason), slog.String("state", t.state.String()))
	switch t.state {
	case StateFinished:
		return
	case StateInvalidated:
		return
	}
	t.state = StateInvalidated
	t.invalidReason = reason
}

// AddBoundary records that the player entered a boundary zone.
func (t *Timer) AddBoundary(guid string) {
	t.boundaries[guid] = struct{}{}
}

// RemoveBoundary records that the player left a boundary zone.
func (t *Timer) RemoveBoundary(guid string) {
	delete(t.boundaries, guid)
}

// BoundaryCount returns how many boundary zones the player is currently
// inside on this trail.
func (t *Timer) BoundaryCount() int {
	return len(t.boundaries)
}

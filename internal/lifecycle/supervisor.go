// Package lifecycle decides when the process should exit. The service is
// meant to run only while its single front-end client is open: the client
// sends periodic heartbeats plus a one-shot shutdown notification on
// close, and the supervisor turns those signals into a terminate decision.
//
// A shutdown notification alone is not trusted immediately. A page reload
// looks exactly like a close for a moment, so the notification only arms a
// short soft window during which a fresh heartbeat cancels it. A separate,
// much longer hard timeout on heartbeat silence covers clients that vanish
// without notifying at all (crashed tab, lost network, machine sleep).
package lifecycle

import (
	"sync"
	"time"

	"sharegarden/config"
)

// State is the supervisor's view of the attached client.
type State int

const (
	// StateRunning means heartbeats are flowing and no shutdown is pending.
	StateRunning State = iota
	// StateShutdownPending means a shutdown notification arrived and the
	// soft window is counting down.
	StateShutdownPending
	// StateTerminating is absorbing: the terminate decision has been made.
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShutdownPending:
		return "shutdown_pending"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Action is the result of one evaluation tick.
type Action int

const (
	// ActionNone keeps the process alive.
	ActionNone Action = iota
	// ActionTerminate is returned exactly once, on the transition into
	// StateTerminating.
	ActionTerminate
)

// Supervisor owns the liveness state. All mutation goes through
// RecordHeartbeat, RecordShutdownSignal and Evaluate; there is no other
// way to touch the timestamps.
type Supervisor struct {
	mu            sync.Mutex
	state         State
	startedAt     time.Time
	lastHeartbeat time.Time
	shutdownAt    *time.Time

	startupGrace time.Duration
	softWindow   time.Duration
	hardTimeout  time.Duration

	clock func() time.Time
}

// NewSupervisor builds a supervisor with the configured timing windows,
// treating process start as the first heartbeat.
func NewSupervisor(cfg *config.Config) *Supervisor {
	s := cfg.Supervisor

	return newSupervisor(s.StartupGrace, s.SoftWindow, s.HardTimeout, time.Now)
}

func newSupervisor(grace, soft, hard time.Duration, clock func() time.Time) *Supervisor {
	now := clock()

	return &Supervisor{
		state:         StateRunning,
		startedAt:     now,
		lastHeartbeat: now,
		startupGrace:  grace,
		softWindow:    soft,
		hardTimeout:   hard,
		clock:         clock,
	}
}

// State reports the current state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// RecordHeartbeat marks the client as alive. A heartbeat arriving while a
// shutdown is pending cancels it: the client reloaded rather than closed.
func (s *Supervisor) RecordHeartbeat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminating {
		return
	}

	s.lastHeartbeat = s.clock()
	s.shutdownAt = nil
	s.state = StateRunning
}

// RecordShutdownSignal arms (or re-arms) the soft shutdown window.
func (s *Supervisor) RecordShutdownSignal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminating {
		return
	}

	now := s.clock()
	s.shutdownAt = &now
	s.state = StateShutdownPending
}

// Evaluate inspects the liveness state at the given instant and returns
// ActionTerminate on the single tick that crosses a timeout boundary.
// During the startup grace period nothing is evaluated, so the process
// cannot be killed before the first client has had a chance to connect.
func (s *Supervisor) Evaluate(now time.Time) Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminating {
		return ActionNone
	}
	if now.Sub(s.startedAt) < s.startupGrace {
		return ActionNone
	}

	if s.state == StateShutdownPending && s.shutdownAt != nil &&
		now.Sub(*s.shutdownAt) >= s.softWindow {
		s.state = StateTerminating

		return ActionTerminate
	}

	if now.Sub(s.lastHeartbeat) >= s.hardTimeout {
		s.state = StateTerminating

		return ActionTerminate
	}

	return ActionNone
}

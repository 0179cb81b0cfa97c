// Package keepalive schedules periodic health pings that keep an idle
// serverless backend from going to sleep. Ping frequency adapts to how
// recently the backend last answered, the cycle backs off to a full stop when
// the user walks away, and a synchronous wake sequence runs before a real
// prediction request when the backend looks cold.
package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/bmsclient"
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/types"
)

// Pinger is the slice of the backend client the scheduler needs.
type Pinger interface {
	Health(ctx context.Context) error
	Wake(ctx context.Context) error
}

// State is the scheduler lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateScheduled
	StatePinging
	StateRecovering
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StatePinging:
		return "pinging"
	case StateRecovering:
		return "recovering"
	case StateStopped:
		return "stopped"
	}
	return "idle"
}

// ErrNotResponding is returned by EnsureAwake when both the wake call and the
// follow-up health check fail.
var ErrNotResponding = errors.New("server not responding")

// NextInterval picks the ping interval from time since the last successful
// ping. A recently responsive backend is pinged rarely; a cold or
// never-contacted one often. Pure so the tier policy is testable in
// isolation.
func NextInterval(cfg types.KeepAliveConfig, sinceSuccess time.Duration, everSucceeded bool) time.Duration {
	if !everSucceeded {
		return cfg.IntervalCold.Std()
	}
	switch {
	case sinceSuccess < cfg.ResponsiveWindow.Std():
		return cfg.IntervalResponsive.Std()
	case sinceSuccess < cfg.ModerateWindow.Std():
		return cfg.IntervalModerate.Std()
	default:
		return cfg.IntervalCold.Std()
	}
}

// ShouldStop reports whether the cycle must be abandoned outright: either the
// user has been inactive past the threshold while the session has outlived
// its maximum, or the backend has been unreachable past the absolute ceiling.
func ShouldStop(cfg types.KeepAliveConfig, inactiveFor, sessionFor, sinceSuccess time.Duration, everSucceeded bool) bool {
	if inactiveFor >= cfg.InactivityThreshold.Std() && sessionFor >= cfg.SessionMax.Std() {
		return true
	}
	if everSucceeded && sinceSuccess >= cfg.StalenessCeiling.Std() {
		return true
	}
	return false
}

// Scheduler drives the ping cycle. A single timer backs the whole machine;
// scheduling always cancels the previous timer so pings never overlap.
type Scheduler struct {
	mu     sync.Mutex
	cfg    types.KeepAliveConfig
	pinger Pinger

	state        State
	status       types.ServerStatus
	timer        *time.Timer
	lastSuccess  time.Time
	lastActivity time.Time
	sessionStart time.Time

	// onStatus, when set, is invoked (without the lock held) every time the
	// observed server status changes. Used by the viewer status label.
	onStatus func(types.ServerStatus)

	now func() time.Time
}

// New builds a Scheduler; call Start to begin pinging.
func New(cfg types.KeepAliveConfig, pinger Pinger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		pinger: pinger,
		state:  StateIdle,
		status: types.StatusUnknown,
		now:    time.Now,
	}
}

// OnStatusChange registers the status callback. Must be called before Start.
func (s *Scheduler) OnStatusChange(fn func(types.ServerStatus)) { s.onStatus = fn }

// Start enters the scheduled state and arms the first ping timer. A disabled
// config makes Start a no-op.
func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		bmsclient.Debugf("keepalive disabled by config")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle && s.state != StateStopped {
		return
	}
	n := s.now()
	s.sessionStart = n
	s.lastActivity = n
	s.scheduleLocked()
}

// Stop cancels any pending timer and parks the machine. Used on app exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.state = StateStopped
}

// Touch records user activity. Interaction after a stop restarts the cycle
// with a fresh session clock; a new click always wins over a stale stopped
// state.
func (s *Scheduler) Touch() {
	if !s.cfg.Enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.now()
	s.lastActivity = n
	if s.state == StateStopped || s.state == StateIdle {
		s.sessionStart = n
		s.scheduleLocked()
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the last observed server status.
func (s *Scheduler) Status() types.ServerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// HasPendingTimer reports whether a ping or recovery timer is armed.
func (s *Scheduler) HasPendingTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// scheduleLocked arms the next ping. Any previously pending timer is
// cancelled first so only one can ever fire.
func (s *Scheduler) scheduleLocked() {
	s.cancelTimerLocked()
	d := NextInterval(s.cfg, s.sinceSuccessLocked(), !s.lastSuccess.IsZero())
	s.state = StateScheduled
	s.timer = time.AfterFunc(d, s.fire)
	bmsclient.Debugf("keepalive: next ping in %s", d)
}

func (s *Scheduler) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) sinceSuccessLocked() time.Duration {
	if s.lastSuccess.IsZero() {
		return 0
	}
	return s.now().Sub(s.lastSuccess)
}

// fire runs when the scheduled timer expires: re-check the stop policy, then
// ping once and either reschedule or enter recovery.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.state != StateScheduled {
		s.mu.Unlock()
		return
	}
	n := s.now()
	if ShouldStop(s.cfg, n.Sub(s.lastActivity), n.Sub(s.sessionStart), s.sinceSuccessLocked(), !s.lastSuccess.IsZero()) {
		bmsclient.Infof("keepalive: stopping (inactive or stale session)")
		s.cancelTimerLocked()
		s.state = StateStopped
		s.mu.Unlock()
		return
	}
	s.state = StatePinging
	s.timer = nil
	s.mu.Unlock()

	err := s.pinger.Health(context.Background())

	s.mu.Lock()
	if s.state != StatePinging {
		s.mu.Unlock()
		return
	}
	if err == nil {
		s.lastSuccess = s.now()
		s.setStatusLocked(types.StatusOnline)
		s.scheduleLocked()
		s.mu.Unlock()
		return
	}
	bmsclient.Warnf("keepalive: ping failed (%s), retrying once in %s", bmsclient.Classify(err), s.cfg.RecoveryDelay)
	s.setStatusLocked(types.StatusOffline)
	s.state = StateRecovering
	s.timer = time.AfterFunc(s.cfg.RecoveryDelay.Std(), s.recover)
	s.mu.Unlock()
}

// recover runs the single delayed retry after a failed ping. A second failure
// parks the machine; no further timers remain pending.
func (s *Scheduler) recover() {
	s.mu.Lock()
	if s.state != StateRecovering {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	err := s.pinger.Health(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecovering {
		return
	}
	if err == nil {
		s.lastSuccess = s.now()
		s.setStatusLocked(types.StatusOnline)
		s.scheduleLocked()
		return
	}
	bmsclient.Warnf("keepalive: recovery ping failed, stopping until next interaction")
	s.setStatusLocked(types.StatusOffline)
	s.cancelTimerLocked()
	s.state = StateStopped
}

func (s *Scheduler) setStatusLocked(st types.ServerStatus) {
	if s.status == st {
		return
	}
	s.status = st
	if s.onStatus != nil {
		fn, v := s.onStatus, st
		go fn(v)
	}
}

// RecordSuccess notes an out-of-band successful backend contact (e.g. a
// prediction call) so the tier policy sees the backend as warm.
func (s *Scheduler) RecordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSuccess = s.now()
	s.setStatusLocked(types.StatusOnline)
}

// RecordFailure notes an out-of-band failed contact.
func (s *Scheduler) RecordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatusLocked(types.StatusOffline)
}

// EnsureAwake makes sure the backend is up before a real request. When the
// last observed status is anything but online it issues the long-timeout wake
// call, and on failure waits the configured delay and tries one more health
// check. Only after both fail does it give up with ErrNotResponding.
func (s *Scheduler) EnsureAwake(ctx context.Context) error {
	if s.Status() == types.StatusOnline {
		return nil
	}
	bmsclient.Infof("keepalive: backend %s, sending wake-up call", s.Status())
	err := s.pinger.Wake(ctx)
	if err == nil {
		s.RecordSuccess()
		return nil
	}
	bmsclient.Warnf("keepalive: wake failed (%s)", bmsclient.Classify(err))
	select {
	case <-time.After(s.cfg.WakeRetryDelay.Std()):
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNotResponding, ctx.Err())
	}
	if err := s.pinger.Health(ctx); err != nil {
		s.RecordFailure()
		return fmt.Errorf("%w: %v", ErrNotResponding, err)
	}
	s.RecordSuccess()
	return nil
}

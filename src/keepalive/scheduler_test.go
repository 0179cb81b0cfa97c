package keepalive

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/types"
)

type fakePinger struct {
	mu          sync.Mutex
	healthErrs  []error // consumed in order; the last entry repeats
	wakeErr     error
	healthCalls int
	wakeCalls   int
}

func (f *fakePinger) Health(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthCalls++
	if len(f.healthErrs) == 0 {
		return nil
	}
	err := f.healthErrs[0]
	if len(f.healthErrs) > 1 {
		f.healthErrs = f.healthErrs[1:]
	}
	return err
}

func (f *fakePinger) Wake(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wakeCalls++
	return f.wakeErr
}

func (f *fakePinger) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthCalls, f.wakeCalls
}

func fastConfig() types.KeepAliveConfig {
	return types.KeepAliveConfig{
		Enabled:             true,
		IntervalResponsive:  types.Duration(60 * time.Millisecond),
		IntervalModerate:    types.Duration(40 * time.Millisecond),
		IntervalCold:        types.Duration(15 * time.Millisecond),
		ResponsiveWindow:    types.Duration(time.Minute),
		ModerateWindow:      types.Duration(2 * time.Minute),
		RecoveryDelay:       types.Duration(15 * time.Millisecond),
		InactivityThreshold: types.Duration(time.Hour),
		SessionMax:          types.Duration(time.Hour),
		StalenessCeiling:    types.Duration(time.Hour),
		WakeRetryDelay:      types.Duration(5 * time.Millisecond),
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNextIntervalTiers(t *testing.T) {
	cfg := types.KeepAliveConfig{
		IntervalResponsive: types.Duration(10 * time.Minute),
		IntervalModerate:   types.Duration(5 * time.Minute),
		IntervalCold:       types.Duration(2 * time.Minute),
		ResponsiveWindow:   types.Duration(5 * time.Minute),
		ModerateWindow:     types.Duration(15 * time.Minute),
	}
	cases := []struct {
		since time.Duration
		ever  bool
		want  time.Duration
	}{
		{0, false, 2 * time.Minute}, // never contacted -> short
		{time.Minute, true, 10 * time.Minute},
		{4*time.Minute + 59*time.Second, true, 10 * time.Minute},
		{5 * time.Minute, true, 5 * time.Minute},
		{14 * time.Minute, true, 5 * time.Minute},
		{15 * time.Minute, true, 2 * time.Minute},
		{time.Hour, true, 2 * time.Minute},
	}
	for _, c := range cases {
		if got := NextInterval(cfg, c.since, c.ever); got != c.want {
			t.Fatalf("NextInterval(%s, ever=%v) = %s, want %s", c.since, c.ever, got, c.want)
		}
	}
}

func TestShouldStop(t *testing.T) {
	cfg := types.KeepAliveConfig{
		InactivityThreshold: types.Duration(10 * time.Minute),
		SessionMax:          types.Duration(30 * time.Minute),
		StalenessCeiling:    types.Duration(time.Hour),
	}
	if ShouldStop(cfg, 5*time.Minute, time.Hour, 0, false) {
		t.Fatal("active user must keep the cycle alive")
	}
	if ShouldStop(cfg, 20*time.Minute, 20*time.Minute, 0, false) {
		t.Fatal("inactivity alone must not stop before session max")
	}
	if !ShouldStop(cfg, 20*time.Minute, 40*time.Minute, 0, false) {
		t.Fatal("inactivity plus expired session must stop")
	}
	if !ShouldStop(cfg, 0, 0, 2*time.Hour, true) {
		t.Fatal("staleness past the ceiling must stop")
	}
	if ShouldStop(cfg, 0, 0, 2*time.Hour, false) {
		t.Fatal("staleness check only applies once a ping has succeeded")
	}
}

func TestPingSuccessKeepsScheduling(t *testing.T) {
	p := &fakePinger{}
	s := New(fastConfig(), p)
	s.Start()
	defer s.Stop()

	waitFor(t, "two successful pings", func() bool { h, _ := p.counts(); return h >= 2 })
	waitFor(t, "scheduled state", func() bool { return s.State() == StateScheduled })
	if s.Status() != types.StatusOnline {
		t.Fatalf("status = %s, want online", s.Status())
	}
	if !s.HasPendingTimer() {
		t.Fatal("expected a pending ping timer")
	}
}

func TestFailedRecoveryStopsCompletely(t *testing.T) {
	p := &fakePinger{healthErrs: []error{errors.New("down")}}
	s := New(fastConfig(), p)
	s.Start()

	waitFor(t, "stopped state", func() bool { return s.State() == StateStopped })
	h, _ := p.counts()
	if h != 2 {
		t.Fatalf("health calls = %d, want 2 (ping + one recovery)", h)
	}
	if s.HasPendingTimer() {
		t.Fatal("no timers may remain pending after a failed recovery")
	}
	if s.Status() != types.StatusOffline {
		t.Fatalf("status = %s, want offline", s.Status())
	}
	// Give any stray timer a chance to fire; the count must not move.
	time.Sleep(60 * time.Millisecond)
	if h2, _ := p.counts(); h2 != h {
		t.Fatalf("health calls grew after stop: %d -> %d", h, h2)
	}
}

func TestRecoverySuccessResumes(t *testing.T) {
	p := &fakePinger{healthErrs: []error{errors.New("blip"), nil}}
	s := New(fastConfig(), p)
	s.Start()
	defer s.Stop()

	waitFor(t, "recovery success", func() bool { h, _ := p.counts(); return h >= 2 })
	waitFor(t, "scheduled state", func() bool { return s.State() == StateScheduled })
	if s.Status() != types.StatusOnline {
		t.Fatalf("status = %s, want online", s.Status())
	}
}

func TestTouchRestartsAfterStop(t *testing.T) {
	p := &fakePinger{healthErrs: []error{errors.New("down")}}
	s := New(fastConfig(), p)
	s.Start()
	waitFor(t, "stopped state", func() bool { return s.State() == StateStopped })

	// User interaction wins over the stale stopped state.
	p.mu.Lock()
	p.healthErrs = nil
	p.mu.Unlock()
	s.Touch()
	if s.State() != StateScheduled {
		t.Fatalf("state after touch = %s, want scheduled", s.State())
	}
	waitFor(t, "ping after restart", func() bool { h, _ := p.counts(); return h >= 3 })
	s.Stop()
}

func TestInactiveExpiredSessionStopsWithoutPinging(t *testing.T) {
	cfg := fastConfig()
	cfg.InactivityThreshold = types.Duration(time.Millisecond)
	cfg.SessionMax = types.Duration(time.Millisecond)
	p := &fakePinger{}
	s := New(cfg, p)
	s.Start()

	waitFor(t, "stopped state", func() bool { return s.State() == StateStopped })
	if h, _ := p.counts(); h != 0 {
		t.Fatalf("expected no pings for an abandoned session, got %d", h)
	}
}

func TestStalenessCeilingStops(t *testing.T) {
	cfg := fastConfig()
	cfg.StalenessCeiling = types.Duration(time.Millisecond)
	p := &fakePinger{}
	s := New(cfg, p)
	s.Start()

	// First ping succeeds and reschedules; by the next fire the last success
	// is already past the (tiny) ceiling.
	waitFor(t, "stopped state", func() bool { return s.State() == StateStopped })
	if h, _ := p.counts(); h != 1 {
		t.Fatalf("health calls = %d, want 1", h)
	}
}

func TestDisabledConfigNeverSchedules(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	p := &fakePinger{}
	s := New(cfg, p)
	s.Start()
	s.Touch()
	time.Sleep(40 * time.Millisecond)
	if h, _ := p.counts(); h != 0 {
		t.Fatalf("disabled scheduler pinged %d times", h)
	}
	if s.HasPendingTimer() {
		t.Fatal("disabled scheduler armed a timer")
	}
}

func TestEnsureAwakeSkipsWhenOnline(t *testing.T) {
	p := &fakePinger{}
	s := New(fastConfig(), p)
	s.RecordSuccess()
	if err := s.EnsureAwake(context.Background()); err != nil {
		t.Fatalf("ensure awake: %v", err)
	}
	h, w := p.counts()
	if h != 0 || w != 0 {
		t.Fatalf("online backend must not be probed (health=%d wake=%d)", h, w)
	}
}

func TestEnsureAwakeWakeSucceeds(t *testing.T) {
	p := &fakePinger{}
	s := New(fastConfig(), p)
	if err := s.EnsureAwake(context.Background()); err != nil {
		t.Fatalf("ensure awake: %v", err)
	}
	if _, w := p.counts(); w != 1 {
		t.Fatalf("wake calls = %d, want 1", w)
	}
	if s.Status() != types.StatusOnline {
		t.Fatalf("status = %s, want online", s.Status())
	}
}

func TestEnsureAwakeFallsBackToHealth(t *testing.T) {
	p := &fakePinger{wakeErr: errors.New("cold start")}
	s := New(fastConfig(), p)
	if err := s.EnsureAwake(context.Background()); err != nil {
		t.Fatalf("ensure awake: %v", err)
	}
	h, w := p.counts()
	if w != 1 || h != 1 {
		t.Fatalf("calls = wake %d health %d, want 1/1", w, h)
	}
}

func TestEnsureAwakeBothFail(t *testing.T) {
	p := &fakePinger{wakeErr: errors.New("cold start"), healthErrs: []error{errors.New("still down")}}
	s := New(fastConfig(), p)
	err := s.EnsureAwake(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNotResponding) {
		t.Fatalf("error = %v, want ErrNotResponding", err)
	}
	if s.Status() != types.StatusOffline {
		t.Fatalf("status = %s, want offline", s.Status())
	}
}

package lifecycle

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// AutoLocker locks the wallet after a period of inactivity. It arms only
// while the wallet is unlocked or showing the backup phrase; Touch re-arms
// the countdown on user activity.
type AutoLocker struct {
	mgr     *Manager
	timeout time.Duration
	log     *zap.Logger

	mu          sync.Mutex
	timer       *time.Timer
	armed       bool
	unsubscribe func()
	stopped     bool
}

// NewAutoLocker attaches an inactivity lock to mgr. A non-positive timeout
// disables it entirely.
func NewAutoLocker(mgr *Manager, timeout time.Duration, log *zap.Logger) *AutoLocker {
	if log == nil {
		log = zap.NewNop()
	}
	a := &AutoLocker{mgr: mgr, timeout: timeout, log: log}
	if timeout <= 0 {
		return a
	}
	a.unsubscribe = mgr.Subscribe(a.onState)
	a.onState(mgr.State())
	return a
}

// Touch restarts the inactivity countdown. A no-op while disarmed.
func (a *AutoLocker) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.armed && a.timer != nil {
		a.timer.Reset(a.timeout)
	}
}

// Stop detaches from the manager and cancels any pending lock.
func (a *AutoLocker) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	a.stopped = true
	a.disarmLocked()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *AutoLocker) onState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	switch s.Status {
	case StatusUnlocked, StatusBackupPending:
		a.armLocked()
	default:
		a.disarmLocked()
	}
}

func (a *AutoLocker) armLocked() {
	if a.armed {
		a.timer.Reset(a.timeout)
		return
	}
	a.armed = true
	a.timer = time.AfterFunc(a.timeout, a.fire)
}

func (a *AutoLocker) disarmLocked() {
	if !a.armed {
		return
	}
	a.armed = false
	a.timer.Stop()
}

func (a *AutoLocker) fire() {
	a.mu.Lock()
	if !a.armed || a.stopped {
		a.mu.Unlock()
		return
	}
	a.armed = false
	a.mu.Unlock()

	a.log.Info("auto-lock timeout reached, locking wallet")
	a.mgr.Lock()
}

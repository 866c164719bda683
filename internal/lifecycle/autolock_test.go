package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, mgr *Manager, want Status) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if mgr.State().Status == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("status never reached %s, still %s", want, mgr.State().Status)
}

func TestAutoLockerFires(t *testing.T) {
	f := newFixture(t)
	locker := NewAutoLocker(f.mgr, 50*time.Millisecond, nil)
	defer locker.Stop()

	_, err := f.mgr.Import(context.Background(), testMnemonic, testPassword, false)
	require.NoError(t, err)

	waitForStatus(t, f.mgr, StatusLocked)
}

func TestAutoLockerTouchDefers(t *testing.T) {
	f := newFixture(t)
	locker := NewAutoLocker(f.mgr, 150*time.Millisecond, nil)
	defer locker.Stop()

	_, err := f.mgr.Import(context.Background(), testMnemonic, testPassword, false)
	require.NoError(t, err)

	for range 5 {
		time.Sleep(50 * time.Millisecond)
		locker.Touch()
		assert.Equal(t, StatusUnlocked, f.mgr.State().Status)
	}

	waitForStatus(t, f.mgr, StatusLocked)
}

func TestAutoLockerDisarmsOnLock(t *testing.T) {
	f := newFixture(t)
	locker := NewAutoLocker(f.mgr, 50*time.Millisecond, nil)
	defer locker.Stop()

	_, err := f.mgr.Import(context.Background(), testMnemonic, testPassword, false)
	require.NoError(t, err)
	f.mgr.Lock()

	// Unlocking again re-arms; the old timer must not double-fire early.
	mnemonic, ok := f.mgr.CheckPassword(testPassword)
	require.True(t, ok)
	require.True(t, f.mgr.Unlock(context.Background(), mnemonic))
	waitForStatus(t, f.mgr, StatusLocked)
}

func TestAutoLockerStopped(t *testing.T) {
	f := newFixture(t)
	locker := NewAutoLocker(f.mgr, 30*time.Millisecond, nil)

	_, err := f.mgr.Import(context.Background(), testMnemonic, testPassword, false)
	require.NoError(t, err)
	locker.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StatusUnlocked, f.mgr.State().Status)
}

func TestAutoLockerDisabled(t *testing.T) {
	f := newFixture(t)
	locker := NewAutoLocker(f.mgr, 0, nil)
	defer locker.Stop()

	_, err := f.mgr.Import(context.Background(), testMnemonic, testPassword, false)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StatusUnlocked, f.mgr.State().Status)
}

package service

import (
	"testing"
	"time"
)

func TestLockout_CountsDown(t *testing.T) {
	l := NewLockout(3, time.Minute)

	if left, _ := l.Fail("a@example.com"); left != 2 {
		t.Errorf("expected 2 left, got %d", left)
	}
	if left, _ := l.Fail("a@example.com"); left != 1 {
		t.Errorf("expected 1 left, got %d", left)
	}
	if _, locked := l.Check("a@example.com"); locked {
		t.Fatal("must not be locked before the last attempt")
	}

	left, lockedFor := l.Fail("a@example.com")
	if left != 0 || lockedFor != time.Minute {
		t.Errorf("expected lock for a minute, got left=%d for=%s", left, lockedFor)
	}
	retry, locked := l.Check("a@example.com")
	if !locked || retry <= 0 || retry > time.Minute {
		t.Errorf("expected locked with retry <= 1m, got %v %s", locked, retry)
	}
}

func TestLockout_KeysAreIndependent(t *testing.T) {
	l := NewLockout(1, time.Minute)
	l.Fail("a@example.com")

	if _, locked := l.Check("b@example.com"); locked {
		t.Error("other keys must not be locked")
	}
}

func TestLockout_Reset(t *testing.T) {
	l := NewLockout(2, time.Minute)
	l.Fail("a@example.com")
	l.Reset("a@example.com")

	if left, _ := l.Fail("a@example.com"); left != 1 {
		t.Errorf("expected counter reset, got %d left", left)
	}
}

func TestLockout_Expires(t *testing.T) {
	l := NewLockout(1, 20*time.Millisecond)
	l.Fail("a@example.com")

	time.Sleep(40 * time.Millisecond)
	if _, locked := l.Check("a@example.com"); locked {
		t.Error("lock must expire after the window")
	}
}

func TestLockout_Defaults(t *testing.T) {
	l := NewLockout(0, 0)
	if l.maxAttempts != defaultMaxAttempts || l.window != defaultLockWindow {
		t.Errorf("unexpected defaults: %d %s", l.maxAttempts, l.window)
	}
}

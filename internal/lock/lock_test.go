package lock_test

import (
	"testing"

	"github.com/0xRadioAc7iv/kvstore/internal/lock"
)

func TestLockDirectory(t *testing.T) {
	t.Run("a second lock on the same directory fails while the first is held", func(t *testing.T) {
		dir := t.TempDir()

		f1, err := lock.LockDirectory(dir)
		if err != nil {
			t.Fatalf("expected first lock to succeed: %v", err)
		}

		if _, err := lock.LockDirectory(dir); err == nil {
			t.Error("expected second lock on the same directory to fail")
		}

		lock.UnlockDirectory(f1)
	})

	t.Run("the directory can be locked again once released", func(t *testing.T) {
		dir := t.TempDir()

		f1, err := lock.LockDirectory(dir)
		if err != nil {
			t.Fatalf("expected first lock to succeed: %v", err)
		}
		lock.UnlockDirectory(f1)

		f2, err := lock.LockDirectory(dir)
		if err != nil {
			t.Fatalf("expected lock to succeed after release: %v", err)
		}
		lock.UnlockDirectory(f2)
	})
}

//go:build windows

package transfer

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("file is locked by another process")

// LockExclusive takes a non-blocking exclusive lock on the first byte of
// file and returns the function that releases it.
func LockExclusive(file *os.File) (func(), error) {
	if file == nil {
		return nil, errors.New("lock: nil file")
	}

	h := windows.Handle(file.Fd())
	ol := new(windows.Overlapped)
	err := windows.LockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, ol)
	if err == windows.ERROR_LOCK_VIOLATION {
		return nil, errors.Wrap(ErrLocked, file.Name())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "lock %s", file.Name())
	}
	return func() {
		_ = windows.UnlockFileEx(h, 0, 1, 0, new(windows.Overlapped))
	}, nil
}

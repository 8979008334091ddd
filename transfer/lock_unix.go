//go:build !windows

package transfer

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("file is locked by another process")

// LockExclusive takes a non-blocking exclusive advisory lock on file and
// returns the function that releases it.
func LockExclusive(file *os.File) (func(), error) {
	if file == nil {
		return nil, errors.New("lock: nil file")
	}
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if err == syscall.EWOULDBLOCK {
			return nil, errors.Wrap(ErrLocked, file.Name())
		}
		return nil, errors.Wrapf(err, "lock %s", file.Name())
	}
	return func() {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	}, nil
}

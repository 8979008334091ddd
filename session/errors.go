package session

import "github.com/pkg/errors"

var (
	// ErrNotConnected is returned when the control descriptor is invalid.
	ErrNotConnected = errors.New("session: not connected")

	// ErrNoDataConnection is returned when a transfer runs without a data descriptor.
	ErrNoDataConnection = errors.New("session: no data connection")

	// ErrIncompleteReply means the last read ended without a line terminator;
	// read again to get the rest of the line.
	ErrIncompleteReply = errors.New("session: incomplete reply fragment")

	// ErrWorkerTimeout is returned when a bounded write did not finish in time.
	ErrWorkerTimeout = errors.New("session: write timed out")
)

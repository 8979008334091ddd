package session

import (
	"io"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// SetupDataSocket connects a new data connection to ServerIP():DataPort().
// A failed connect is only logged; check DataValid before using it.
func (s *Session) SetupDataSocket() {
	s.TeardownDataSocket()

	addr := net.JoinHostPort(s.serverIP, strconv.Itoa(s.dataPort))
	data, err := s.dial(addr, s.dataPoll)
	if err != nil {
		s.log.Errorf("Error: data connection to %s failed: %v", addr, err)
		return
	}
	s.data = data
}

// TeardownDataSocket closes the data connection, if any, and marks it invalid.
func (s *Session) TeardownDataSocket() {
	if s.data != nil {
		if err := s.data.Close(); err != nil {
			s.log.Errorf("Error closing data connection: %v", err)
		}
	}
	s.data = nil
	s.dataDec.reset()
}

// DataValid reports whether a data connection is open.
func (s *Session) DataValid() bool {
	return s.data != nil
}

// CopyData copies raw bytes from the data connection into w. It stops at
// EOF, on an empty read, or when nothing arrives within the data poll
// window.
func (s *Session) CopyData(w io.Writer) (int64, error) {
	if s.data == nil {
		return 0, ErrNoDataConnection
	}

	buf := s.dataDec.buf
	var total int64
	for {
		clear(buf)
		if s.readTimeout > 0 {
			if err := s.data.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
				return total, errors.Wrap(err, "set read deadline")
			}
		}

		n, err := s.data.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return total, errors.Wrap(werr, "write transfer data")
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, errors.Wrap(err, "read data connection")
		}
		if n == 0 || s.data.PendingBytes() == 0 {
			return total, nil
		}
	}
}

package session

import (
	"time"

	"github.com/JKowalsky/ftp-client/transport"
)

// Logger receives the diagnostics a Session would otherwise print.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// Transport is a connected descriptor with a non-blocking pending-bytes probe.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	PendingBytes() int
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// DialFunc opens a transport to address. pollWindow is how long
// PendingBytes on the returned transport may wait for data.
type DialFunc func(address string, pollWindow time.Duration) (Transport, error)

func defaultDial(dialTimeout time.Duration) DialFunc {
	return func(address string, pollWindow time.Duration) (Transport, error) {
		conn, err := transport.Dial(address, transport.Options{
			DialTimeout: dialTimeout,
			PollWindow:  pollWindow,
		})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// Direction of a completed transfer
type Direction string

const (
	Download Direction = "download"
	Upload   Direction = "upload"
)

// TransferStats describes one finished transfer.
type TransferStats struct {
	Direction Direction
	Name      string
	Bytes     int64
	Elapsed   time.Duration
	Speed     float64 // bytes per second since the first byte moved
}

// ProgressFunc is called while a transfer moves bytes. total is -1 when unknown.
type ProgressFunc func(name string, transferred, total int64, speed float64, elapsed time.Duration)

// Option configures a Session.
type Option func(*Session)

// WithLogger routes diagnostics to l.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDialer replaces the TCP dialer, mostly for tests.
func WithDialer(d DialFunc) Option {
	return func(s *Session) {
		if d != nil {
			s.dial = d
		}
	}
}

// WithDialTimeout bounds control and data connects.
func WithDialTimeout(d time.Duration) Option {
	return func(s *Session) { s.dialTimeout = d }
}

// WithWriteTimeout bounds every worker write. Zero disables the bound.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Session) { s.writeTimeout = d }
}

// WithReadTimeout bounds each blocking read. Zero blocks forever.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Session) { s.readTimeout = d }
}

// WithReplyPoll sets how long the control channel is probed for more reply lines.
func WithReplyPoll(d time.Duration) Option {
	return func(s *Session) { s.replyPoll = d }
}

// WithDataPoll sets how long a quiet data channel is waited on before a
// download is considered finished.
func WithDataPoll(d time.Duration) Option {
	return func(s *Session) { s.dataPoll = d }
}

// WithStrictReplyCodes makes USER and PASS check for the positive codes
// instead of only rejecting 530 / anything but 331.
func WithStrictReplyCodes() Option {
	return func(s *Session) { s.strict = true }
}

// WithTransferHook is called after every completed transfer.
func WithTransferHook(fn func(TransferStats)) Option {
	return func(s *Session) { s.onTransfer = fn }
}

// WithProgress reports transfer progress.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Session) { s.onProgress = fn }
}

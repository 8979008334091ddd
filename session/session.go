package session

import (
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Defaults applied by New
const (
	DefaultWriteTimeout = 30 * time.Second
	DefaultReplyPoll    = 50 * time.Millisecond
	DefaultDataPoll     = 2 * time.Second
)

// AuthState tracks where the USER/PASS handshake stands.
type AuthState int

const (
	Anonymous AuthState = iota
	UsernameSent
	Authenticated
	Rejected
)

func (a AuthState) String() string {
	switch a {
	case UsernameSent:
		return "username-sent"
	case Authenticated:
		return "authenticated"
	case Rejected:
		return "rejected"
	default:
		return "anonymous"
	}
}

// Session is one client conversation with an FTP server.
type Session struct {
	username      string
	authenticated bool
	state         AuthState

	serverIP string
	ctrlPort int
	ctrl     Transport
	ctrlDec  *replyDecoder

	data     Transport
	dataDec  *replyDecoder
	dataPort int

	dial         DialFunc
	dialTimeout  time.Duration
	writeTimeout time.Duration
	readTimeout  time.Duration
	replyPoll    time.Duration
	dataPoll     time.Duration
	strict       bool

	log        Logger
	onTransfer func(TransferStats)
	onProgress ProgressFunc
}

// New creates a Session for host:port and dials the control connection
// right away. A failed connect is logged; the returned Session then reports
// ControlValid() == false and every command fails with ErrNotConnected.
func New(host string, port int, opts ...Option) *Session {
	s := &Session{
		serverIP:     host,
		ctrlPort:     port,
		ctrlDec:      newReplyDecoder(),
		dataDec:      newReplyDecoder(),
		writeTimeout: DefaultWriteTimeout,
		replyPoll:    DefaultReplyPoll,
		dataPoll:     DefaultDataPoll,
		log:          nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dial == nil {
		s.dial = defaultDial(s.dialTimeout)
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ctrl, err := s.dial(addr, s.replyPoll)
	if err != nil {
		s.log.Errorf("Error: not connected to server: %v", err)
		return s
	}
	s.ctrl = ctrl
	return s
}

// Close tears down the data connection and closes the control connection.
func (s *Session) Close() error {
	s.TeardownDataSocket()
	if s.ctrl == nil {
		return nil
	}
	err := s.ctrl.Close()
	s.ctrl = nil
	return errors.Wrap(err, "close control connection")
}

// ControlValid reports whether the control descriptor is usable.
func (s *Session) ControlValid() bool {
	return s.ctrl != nil
}

// Username returns the last name passed to SetUsername.
func (s *Session) Username() string {
	return s.username
}

// IsAuthenticated reports whether the last PASS was accepted.
func (s *Session) IsAuthenticated() bool {
	return s.authenticated
}

// State returns the handshake state.
func (s *Session) State() AuthState {
	return s.state
}

// SetPort configures the server port the next data connection dials.
func (s *Session) SetPort(p int) {
	s.dataPort = p
}

// DataPort returns the configured data port.
func (s *Session) DataPort() int {
	return s.dataPort
}

// ServerIP returns the host the Session was created with.
func (s *Session) ServerIP() string {
	return s.serverIP
}

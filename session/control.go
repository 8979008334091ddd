package session

import (
	"io"
	"strconv"
	"strings"

	"github.com/jlaffaye/ftp"
	"github.com/pkg/errors"
)

// Send writes cmd followed by CRLF on the control connection. Exactly one
// reply must be read before the next Send.
func (s *Session) Send(cmd string) error {
	if s.ctrl == nil {
		return ErrNotConnected
	}

	line := cmd + "\r\n"
	err := runBounded("send "+verb(cmd), s.writeTimeout, s.ctrl, func(func()) error {
		_, err := io.WriteString(s.ctrl, line)
		return err
	})
	if err != nil {
		s.log.Errorf("Error sending %s: %v", masked(cmd), err)
		return errors.Wrapf(err, "send %s", verb(cmd))
	}
	return nil
}

// Command sends cmd and returns its reply.
func (s *Session) Command(cmd string) (string, error) {
	if err := s.Send(cmd); err != nil {
		return "", err
	}
	return s.ReadReply()
}

// SetUsername sends USER u. Any earlier authentication is dropped. The
// name is accepted when the server asks for a password (331).
func (s *Session) SetUsername(u string) bool {
	s.username = u
	s.authenticated = false
	s.state = Anonymous

	reply, err := s.Command("USER " + u)
	if err != nil {
		s.state = Rejected
		return false
	}

	if s.strict {
		switch {
		case ReplyEqualsCode(reply, code(ftp.StatusLoggedIn)):
			s.authenticated = true
			s.state = Authenticated
			return true
		case ReplyEqualsCode(reply, code(ftp.StatusUserOK)),
			ReplyEqualsCode(reply, code(ftp.StatusLoginNeedAccount)):
			s.state = UsernameSent
			return true
		}
	} else if ReplyEqualsCode(reply, code(ftp.StatusUserOK)) {
		s.state = UsernameSent
		return true
	}

	s.log.Errorf("Error in login: %s", reply)
	s.state = Rejected
	return false
}

// Authenticate sends PASS p. Every reply except 530 counts as success
// unless strict reply codes are enabled, in which case only 230 and 202 do.
func (s *Session) Authenticate(p string) bool {
	s.authenticated = true

	reply, err := s.Command("PASS " + p)
	if err != nil {
		s.authenticated = false
		s.state = Rejected
		return false
	}

	rejected := ReplyEqualsCode(reply, code(ftp.StatusNotLoggedIn))
	if s.strict {
		rejected = !ReplyEqualsCode(reply, code(ftp.StatusLoggedIn)) &&
			!ReplyEqualsCode(reply, code(ftp.StatusCommandNotImplemented))
	}
	if rejected {
		s.log.Errorf("Error in login: %s", reply)
		s.authenticated = false
		s.state = Rejected
		return false
	}

	s.state = Authenticated
	return true
}

func code(status int) string {
	return strconv.Itoa(status)
}

func verb(cmd string) string {
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		return strings.ToUpper(cmd[:i])
	}
	return strings.ToUpper(cmd)
}

// masked hides the PASS argument in diagnostics.
func masked(cmd string) string {
	if verb(cmd) == "PASS" {
		return "PASS ****"
	}
	return cmd
}

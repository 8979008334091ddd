package commands

import (
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/jlaffaye/ftp"
	"github.com/pkg/errors"

	"github.com/JKowalsky/ftp-client/session"
)

// pasvRegex matches the PASV response format: 227 Entering Passive Mode (h1,h2,h3,h4,p1,p2)
var pasvRegex = regexp.MustCompile(`\((\d+),(\d+),(\d+),(\d+),(\d+),(\d+)\)`)

// parsePASV parses a PASV response and returns the host and port.
// Example: "227 Entering Passive Mode (192,168,1,1,195,149)"
// Returns: "192.168.1.1", 50069 (195*256 + 149 = 50069)
func parsePASV(response string) (string, int, error) {
	matches := pasvRegex.FindStringSubmatch(response)
	if len(matches) != 7 {
		return "", 0, errors.Errorf("invalid PASV response: %s", response)
	}

	var h [4]int
	for i := range 4 {
		val, err := strconv.Atoi(matches[i+1])
		if err != nil || val < 0 || val > 255 {
			return "", 0, errors.Errorf("invalid PASV IP part: %s", matches[i+1])
		}
		h[i] = val
	}
	host := net.IPv4(byte(h[0]), byte(h[1]), byte(h[2]), byte(h[3])).String()

	p1, err1 := strconv.Atoi(matches[5])
	p2, err2 := strconv.Atoi(matches[6])
	if err1 != nil || err2 != nil || p1 < 0 || p1 > 255 || p2 < 0 || p2 > 255 {
		return "", 0, errors.Errorf("invalid PASV port parts: %s, %s", matches[5], matches[6])
	}
	return host, p1*256 + p2, nil
}

// openData asks for a passive port and connects the session's data socket
// to it. The session always dials its own server address; the host in the
// reply is ignored.
func openData(s Session) error {
	reply, err := s.Command("PASV")
	if err != nil {
		return err
	}
	if !is(reply, ftp.StatusPassiveMode) {
		return errors.Errorf("passive mode refused: %s", describe(reply))
	}

	_, port, err := parsePASV(reply)
	if err != nil {
		return err
	}

	s.SetPort(port)
	s.SetupDataSocket()
	if !s.DataValid() {
		return errors.Wrapf(session.ErrNoDataConnection, "port %d", port)
	}
	return nil
}

// startTransfer sends cmd on an open data connection and checks that the
// server started sending. done reports that the closing reply was already
// read along with the preliminary one, either on its own or as the last
// line of the same read.
func startTransfer(s Session, cmd string) (done bool, err error) {
	reply, err := s.Command(cmd)
	if err != nil {
		return false, err
	}
	last := session.LastLine(reply)
	switch {
	case is(reply, ftp.StatusAboutToSend), is(reply, ftp.StatusAlreadyOpen):
		switch {
		case last != "" && last[0] == '1':
			return false, nil
		case positive(last):
			return true, nil
		}
		return true, errors.Errorf("transfer failed: %s", describe(last))
	case is(last, ftp.StatusClosingDataConnection):
		return true, nil
	}
	return false, errors.Errorf("%s refused: %s", verbOf(cmd), describe(reply))
}

// finishTransfer reads the reply that closes a transfer unless it was
// already consumed.
func finishTransfer(s Session, done bool) error {
	if done {
		return nil
	}
	reply, err := s.ReadClosingReply()
	if err != nil {
		return err
	}
	if !positive(reply) {
		return errors.Errorf("transfer failed: %s", describe(reply))
	}
	return nil
}

// positive reports whether reply starts with a 2xx status code.
func positive(reply string) bool {
	if len(reply) < 3 || reply[0] != '2' {
		return false
	}
	_, err := strconv.Atoi(reply[:3])
	return err == nil
}

// describe fills in the standard text for replies that carry a bare code.
func describe(reply string) string {
	if len(strings.TrimSpace(reply)) > 3 {
		return reply
	}
	code, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return reply
	}
	return strconv.Itoa(code) + " " + ftp.StatusText(code)
}

func is(reply string, status int) bool {
	return session.ReplyEqualsCode(reply, strconv.Itoa(status))
}

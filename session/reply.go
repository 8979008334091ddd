package session

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// BufferSize is the size of each connection's read buffer.
const BufferSize = 4096

// replyDecoder frames terminator-delimited text read from one connection.
// Bytes after the last terminator are carried into the next decode.
type replyDecoder struct {
	buf     []byte
	partial []byte
}

func newReplyDecoder() *replyDecoder {
	return &replyDecoder{buf: make([]byte, BufferSize)}
}

func (d *replyDecoder) reset() {
	d.partial = d.partial[:0]
}

// decode performs exactly one read. It returns the text before the
// rightmost "\n" (with a trailing "\r" removed) or ErrIncompleteReply when
// nothing terminated has arrived yet.
func (d *replyDecoder) decode(r Transport, timeout time.Duration) (string, error) {
	clear(d.buf)
	if timeout > 0 {
		if err := r.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return "", errors.Wrap(err, "set read deadline")
		}
	}

	n, err := r.Read(d.buf)
	if n > 0 {
		d.partial = append(d.partial, d.buf[:n]...)
	}

	end := bytes.LastIndexByte(d.partial, '\n')
	if end < 0 {
		if err != nil {
			return "", errors.Wrap(err, "read reply")
		}
		return "", ErrIncompleteReply
	}

	text := strings.TrimSuffix(string(d.partial[:end]), "\r")
	d.partial = append(d.partial[:0], d.partial[end+1:]...)
	return text, nil
}

// ReplyEqualsCode reports whether the first three characters of reply are
// exactly code. Replies shorter than three characters never match.
func ReplyEqualsCode(reply, code string) bool {
	if len(reply) < 3 {
		return false
	}
	return reply[:3] == code
}

// LastLine returns the final line of a decoded reply. Several replies read
// together come back as one text; the last line is the most recent one.
func LastLine(reply string) string {
	if i := strings.LastIndexByte(reply, '\n'); i >= 0 {
		return strings.TrimSuffix(reply[i+1:], "\r")
	}
	return reply
}

// continuation reports whether the last line of reply is an RFC 959
// "ddd-" line, meaning the server has more lines of the same reply to send.
func continuation(reply string) bool {
	last := LastLine(reply)
	if len(last) < 4 || last[3] != '-' {
		return false
	}
	for _, c := range last[:3] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (s *Session) readControl() (string, error) {
	if s.ctrl == nil {
		return "", ErrNotConnected
	}
	for {
		reply, err := s.ctrlDec.decode(s.ctrl, s.readTimeout)
		if errors.Is(err, ErrIncompleteReply) {
			continue
		}
		if err != nil {
			return "", err
		}
		s.log.Infof("%s", reply)
		return reply, nil
	}
}

// ReadReply returns the server's reply to the last command. It keeps
// reading while the control connection has pending bytes or the reply is
// still inside a multi-line block; the last decoded text is the reply.
func (s *Session) ReadReply() (string, error) {
	reply, err := s.readControl()
	if err != nil {
		return "", err
	}
	for continuation(reply) || s.ctrl.PendingBytes() > 0 {
		reply, err = s.readControl()
		if err != nil {
			return "", err
		}
	}
	return reply, nil
}

// ReadClosingReply reads the single reply that ends a transfer or a QUIT.
func (s *Session) ReadClosingReply() (string, error) {
	return s.readControl()
}

// ReadDataReply reads text from the data connection, draining it while
// more bytes are pending and the last fragment was not empty.
func (s *Session) ReadDataReply() (string, error) {
	if s.data == nil {
		return "", ErrNoDataConnection
	}

	var reply string
	for {
		text, err := s.dataDec.decode(s.data, s.readTimeout)
		if errors.Is(err, io.EOF) {
			return reply, nil
		}
		if err != nil && !errors.Is(err, ErrIncompleteReply) {
			return reply, err
		}
		if err == nil {
			s.log.Infof("%s", text)
			reply = text
			if text == "" {
				return reply, nil
			}
		}
		if s.data.PendingBytes() == 0 {
			return reply, nil
		}
	}
}

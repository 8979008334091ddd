package transport

import (
	"bufio"
	"net"
	"time"

	"github.com/pkg/errors"
)

// Defaults used by Dial
const (
	DefaultPollWindow  = 50 * time.Millisecond
	DefaultDialTimeout = 60 * time.Second
)

// Options controls how a connection is dialed and probed
type Options struct {
	DialTimeout time.Duration // 0 means DefaultDialTimeout
	PollWindow  time.Duration // how long PendingBytes waits for data to show up
}

// Conn is a connected TCP descriptor with its own buffered reader.
// It is not safe for concurrent readers.
type Conn struct {
	conn       net.Conn
	reader     *bufio.Reader
	pollWindow time.Duration
}

// Dial connects to address ("host:port")
func Dial(address string, opts Options) (*Conn, error) {
	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	c, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", address)
	}
	return NewConn(c, opts.PollWindow), nil
}

// NewConn wraps an already connected net.Conn
func NewConn(c net.Conn, pollWindow time.Duration) *Conn {
	if pollWindow <= 0 {
		pollWindow = DefaultPollWindow
	}
	return &Conn{
		conn:       c,
		reader:     bufio.NewReader(c),
		pollWindow: pollWindow,
	}
}

func (c *Conn) Read(p []byte) (int, error) {
	return c.reader.Read(p)
}

func (c *Conn) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

// Close closes the underlying connection
func (c *Conn) Close() error {
	return c.conn.Close()
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

// PendingBytes reports how many bytes can be read without blocking.
// When nothing is buffered it waits at most the poll window for the peer
// to send something, so a zero result means "nothing arrived in time" or
// the stream is closed.
func (c *Conn) PendingBytes() int {
	if n := c.reader.Buffered(); n > 0 {
		return n
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.pollWindow)); err != nil {
		return 0
	}
	defer c.conn.SetReadDeadline(time.Time{})

	// Peek fills the buffer with whatever the kernel already holds.
	// A timeout or EOF leaves it empty.
	_, _ = c.reader.Peek(1)
	return c.reader.Buffered()
}

package session

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// fakeTransport replays scripted chunks, one per Read, and records writes.
// Each entry of replies becomes readable after one more write, the way a
// server only answers after it received a command.
type fakeTransport struct {
	mu       sync.Mutex
	chunks   [][]byte
	replies  [][]string
	written  bytes.Buffer
	reads    int
	closed   bool
	writeErr error
}

func newFake(chunks ...string) *fakeTransport {
	f := &fakeTransport{}
	for _, c := range chunks {
		f.chunks = append(f.chunks, []byte(c))
	}
	return f
}

// answer queues one reply (possibly split into several reads) per command.
func (f *fakeTransport) answer(chunks ...string) *fakeTransport {
	f.replies = append(f.replies, chunks)
	return f
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if len(f.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.chunks[0])
	if n < len(f.chunks[0]) {
		f.chunks[0] = f.chunks[0][n:]
	} else {
		f.chunks = f.chunks[1:]
	}
	return n, nil
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	if len(f.replies) > 0 {
		for _, c := range f.replies[0] {
			f.chunks = append(f.chunks, []byte(c))
		}
		f.replies = f.replies[1:]
	}
	return f.written.Write(p)
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) PendingBytes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.chunks) == 0 {
		return 0
	}
	return len(f.chunks[0])
}

func (f *fakeTransport) SetReadDeadline(time.Time) error  { return nil }
func (f *fakeTransport) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeTransport) sent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.String()
}

func (f *fakeTransport) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeDialer hands out ctrl on the first dial and the data fakes after it.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeTransport
	addrs []string
}

func (d *fakeDialer) dial(address string, _ time.Duration) (Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addrs = append(d.addrs, address)
	if len(d.conns) == 0 {
		return nil, errors.Errorf("dial %s: connection refused", address)
	}
	c := d.conns[0]
	d.conns = d.conns[1:]
	return c, nil
}

func newTestSession(conns ...*fakeTransport) (*Session, *fakeDialer, *recordLogger) {
	d := &fakeDialer{conns: conns}
	log := &recordLogger{}
	s := New("127.0.0.1", 21, WithDialer(d.dial), WithLogger(log))
	return s, d, log
}

type recordLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordLogger) Infof(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func (l *recordLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

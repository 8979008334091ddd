package session

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/JKowalsky/ftp-client/transport"
)

func TestRunBoundedReturnsWorkerError(t *testing.T) {
	t.Parallel()
	want := errors.New("boom")
	err := runBounded("test", time.Second, newFake(), func(func()) error { return want })
	if err != want {
		t.Errorf("runBounded() = %v, want %v", err, want)
	}
}

func TestRunBoundedTimesOutBlockedWrite(t *testing.T) {
	t.Parallel()
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	finished := false
	start := time.Now()
	err := runBounded("write", 50*time.Millisecond, client, func(func()) error {
		defer func() { finished = true }()
		_, err := client.Write([]byte("nobody reads this"))
		return err
	})

	if !errors.Is(err, ErrWorkerTimeout) {
		t.Fatalf("runBounded() = %v, want ErrWorkerTimeout", err)
	}
	if !finished {
		t.Error("runBounded returned while the worker was still running")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout took far too long")
	}
}

func TestRunBoundedTouchRestartsClock(t *testing.T) {
	t.Parallel()
	err := runBounded("busy", 50*time.Millisecond, newFake(), func(touch func()) error {
		for range 10 {
			time.Sleep(15 * time.Millisecond)
			touch()
		}
		return nil
	})
	if err != nil {
		t.Errorf("runBounded() = %v, want nil for a worker that keeps making progress", err)
	}
}

func TestSendFileSlowPeerIsNotAStall(t *testing.T) {
	t.Parallel()
	client, server := net.Pipe()
	defer server.Close()

	payload := bytes.Repeat([]byte("slow and steady "), 64*1024) // 1 MiB
	src := filepath.Join(t.TempDir(), "steady.bin")
	if err := os.WriteFile(src, payload, 0644); err != nil {
		t.Fatal(err)
	}

	received := make(chan int, 1)
	go func() {
		buf := make([]byte, UploadChunk)
		total := 0
		for {
			n, err := server.Read(buf)
			total += n
			if err != nil {
				received <- total
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	dials := 0
	dial := func(string, time.Duration) (Transport, error) {
		dials++
		if dials == 1 {
			return newFake(), nil
		}
		return transport.NewConn(client, time.Millisecond), nil
	}
	s := New("127.0.0.1", 21, WithDialer(dial), WithWriteTimeout(60*time.Millisecond))
	defer s.Close()
	s.SetPort(2121)
	s.SetupDataSocket()

	start := time.Now()
	if !s.SendFile(src, "steady.bin") {
		t.Fatalf("SendFile() = false after %v", time.Since(start))
	}
	if got := <-received; got != len(payload) {
		t.Errorf("peer received %d bytes, want %d", got, len(payload))
	}
}

func TestSendTimesOut(t *testing.T) {
	t.Parallel()
	client, server := net.Pipe()
	defer server.Close()

	dial := func(string, time.Duration) (Transport, error) {
		return transport.NewConn(client, time.Millisecond), nil
	}
	log := &recordLogger{}
	s := New("127.0.0.1", 21, WithDialer(dial), WithLogger(log), WithWriteTimeout(50*time.Millisecond))
	defer s.Close()

	if err := s.Send("NOOP"); !errors.Is(err, ErrWorkerTimeout) {
		t.Errorf("Send() = %v, want ErrWorkerTimeout", err)
	}
	if log.errorCount() != 1 {
		t.Errorf("logged %d errors, want 1", log.errorCount())
	}
}

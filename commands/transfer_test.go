package commands

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JKowalsky/ftp-client/session"
)

func TestStartTransfer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		reply    string
		wantDone bool
		wantErr  bool
	}{
		{"preliminary only", "150 Opening BINARY mode data connection", false, false},
		{"already open", "125 Data connection already open", false, false},
		{"closing reply on its own", "226 Transfer complete", true, false},
		{"preliminary and closing together", "150 Opening\r\n226 Transfer complete", true, false},
		{"multi-line preliminary", "150-Opening\r\n150 data connection", false, false},
		{"preliminary then failure", "150 Opening\r\n451 Local error", true, true},
		{"refused", "550 Failed to open file.", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newFakeSession()
			s.replies["RETR"] = tt.reply
			done, err := startTransfer(s, "RETR f")
			if (err != nil) != tt.wantErr {
				t.Fatalf("startTransfer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && done != tt.wantDone {
				t.Errorf("startTransfer() done = %v, want %v", done, tt.wantDone)
			}
		})
	}
}

func TestFinishTransfer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		closing string
		wantErr bool
	}{
		{"226 Transfer complete", false},
		{"250 Requested file action okay", false},
		{"426 Connection closed; transfer aborted", true},
		{"", true},
		{"2", true},
		{"2xx nonsense", true},
	}
	for _, tt := range tests {
		s := newFakeSession()
		s.closing = []string{tt.closing}
		if err := finishTransfer(s, false); (err != nil) != tt.wantErr {
			t.Errorf("finishTransfer(%q) error = %v, wantErr %v", tt.closing, err, tt.wantErr)
		}
	}
}

func TestGetTrimsExtraWhitespace(t *testing.T) {
	t.Parallel()
	cmd, _ := NewDictionary(&fakeOutput{}, nil).Lookup("get")

	s := newFakeSession()
	s.replies["PASV"] = pasvReply
	s.replies["RETR"] = "150 Opening BINARY mode data connection"
	s.closing = []string{"226 Transfer complete."}

	if err := cmd.Execute(s, "  report.txt "); err != nil {
		t.Fatalf("get = %v", err)
	}
	if s.sent[1] != "RETR report.txt" {
		t.Errorf("sent %v", s.sent)
	}
	if s.getArg != " report.txt" {
		t.Errorf("GetFile(%q), want %q", s.getArg, " report.txt")
	}
}

// serveRetr plays a server that answers RETR with the preliminary and the
// closing reply in a single write.
func serveRetr(ctrl, data net.Listener, payload string) {
	c, err := ctrl.Accept()
	if err != nil {
		return
	}
	defer c.Close()
	r := bufio.NewReader(c)

	port := data.Addr().(*net.TCPAddr).Port
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		switch strings.Fields(line)[0] {
		case "PASV":
			fmt.Fprintf(c, "227 Entering Passive Mode (127,0,0,1,%d,%d)\r\n", port/256, port%256)
		case "RETR":
			d, err := data.Accept()
			if err != nil {
				return
			}
			_, _ = d.Write([]byte(payload))
			d.Close()
			_, _ = c.Write([]byte("150 Opening BINARY mode data connection\r\n226 Transfer complete\r\n"))
		default:
			fmt.Fprintf(c, "502 Command not implemented\r\n")
		}
	}
}

func TestGetOverTCPWithCombinedReplies(t *testing.T) {
	t.Parallel()
	ctrl, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ctrl.Close()
	data, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer data.Close()

	go serveRetr(ctrl, data, "hello over tcp")

	s := session.New("127.0.0.1", ctrl.Addr().(*net.TCPAddr).Port, session.WithDataPoll(time.Second))
	defer s.Close()

	dst := filepath.Join(t.TempDir(), "f.txt")
	cmd, _ := NewDictionary(&fakeOutput{}, nil).Lookup("get")

	result := make(chan error, 1)
	go func() { result <- cmd.Execute(s, " "+dst) }()

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("get = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("get still waiting for a closing reply it already read")
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello over tcp" {
		t.Errorf("file content = %q", got)
	}
}

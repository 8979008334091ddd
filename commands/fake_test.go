package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jlaffaye/ftp"
	"github.com/pkg/errors"
)

// fakeSession answers each command verb with a scripted reply.
type fakeSession struct {
	replies  map[string]string
	closing  []string
	sent     []string
	sendErr  error
	data     string
	port     int
	dataOpen bool
	dialFail bool

	userOK        bool
	passOK        bool
	authenticated bool
	password      string

	getOK     bool
	getArg    string
	sendOK    bool
	sendLocal string
	sendRemot string
}

func newFakeSession() *fakeSession {
	return &fakeSession{replies: make(map[string]string), getOK: true, sendOK: true}
}

func (f *fakeSession) Send(cmd string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeSession) Command(cmd string) (string, error) {
	if err := f.Send(cmd); err != nil {
		return "", err
	}
	reply, ok := f.replies[verbOf(cmd)]
	if !ok {
		return "", errors.Errorf("no reply scripted for %s", cmd)
	}
	return reply, nil
}

func (f *fakeSession) ReadClosingReply() (string, error) {
	if len(f.closing) == 0 {
		return "", io.EOF
	}
	r := f.closing[0]
	f.closing = f.closing[1:]
	return r, nil
}

func (f *fakeSession) SetUsername(u string) bool {
	f.sent = append(f.sent, "USER "+u)
	return f.userOK
}

func (f *fakeSession) Authenticate(p string) bool {
	f.password = p
	f.authenticated = f.passOK
	return f.passOK
}

func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }
func (f *fakeSession) SetPort(p int)         { f.port = p }
func (f *fakeSession) DataValid() bool       { return f.dataOpen }

func (f *fakeSession) SetupDataSocket() {
	f.dataOpen = !f.dialFail
}

func (f *fakeSession) TeardownDataSocket() { f.dataOpen = false }

func (f *fakeSession) CopyData(w io.Writer) (int64, error) {
	n, err := io.Copy(w, strings.NewReader(f.data))
	return n, err
}

func (f *fakeSession) GetFile(name string) bool {
	f.getArg = name
	return f.getOK
}

func (f *fakeSession) SendFile(local, remote string) bool {
	f.sendLocal, f.sendRemot = local, remote
	return f.sendOK
}

type fakeOutput struct {
	messages []string
	entries  []*ftp.Entry
}

func (o *fakeOutput) Successf(format string, args ...interface{}) {
	o.messages = append(o.messages, fmt.Sprintf(format, args...))
}

func (o *fakeOutput) Listing(entries []*ftp.Entry) error {
	o.entries = entries
	return nil
}

func staticPassword(p string) PasswordFunc {
	return func(string) (string, error) { return p, nil }
}

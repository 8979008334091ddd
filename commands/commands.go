// Package commands maps the client's interactive verbs onto Session
// operations.
package commands

import (
	"io"
	"sort"
	"strings"

	"github.com/jlaffaye/ftp"
	"github.com/pkg/errors"
)

// ErrQuit is returned by the quit command once the server was told goodbye.
var ErrQuit = errors.New("quit")

// Session is the part of *session.Session the handlers drive.
type Session interface {
	Send(cmd string) error
	Command(cmd string) (string, error)
	ReadClosingReply() (string, error)
	SetUsername(u string) bool
	Authenticate(p string) bool
	IsAuthenticated() bool
	SetPort(p int)
	SetupDataSocket()
	TeardownDataSocket()
	DataValid() bool
	CopyData(w io.Writer) (int64, error)
	GetFile(name string) bool
	SendFile(local, remote string) bool
}

// Output is where handlers show results that are not server replies.
type Output interface {
	Successf(format string, args ...interface{})
	Listing(entries []*ftp.Entry) error
}

// PasswordFunc reads a password without echoing it.
type PasswordFunc func(prompt string) (string, error)

// Command is one user verb. arg is everything after the verb, including
// the separating space.
type Command interface {
	Execute(s Session, arg string) error
}

// Verb describes a dictionary entry for help and completion.
type Verb struct {
	Name        string
	Usage       string
	Description string
}

type entry struct {
	cmd  Command
	verb Verb
}

// Dictionary maps verbs to commands.
type Dictionary struct {
	dict map[string]entry
}

// NewDictionary builds the login, cd, ls, get, put and quit commands.
func NewDictionary(out Output, password PasswordFunc) *Dictionary {
	d := &Dictionary{dict: make(map[string]entry)}
	d.add(&login{out: out, password: password}, Verb{"login", "login <user>", "Log in; the password is asked for"})
	d.add(&cd{out: out}, Verb{"cd", "cd <dir>", "Change the remote directory"})
	d.add(&ls{out: out}, Verb{"ls", "ls [path]", "List a remote directory"})
	d.add(&get{out: out}, Verb{"get", "get <file>", "Download a file into the current directory"})
	d.add(&put{out: out}, Verb{"put", "put <local> [remote]", "Upload a local file"})
	d.add(quit{}, Verb{"quit", "quit", "Say goodbye to the server and exit"})
	return d
}

func (d *Dictionary) add(cmd Command, v Verb) {
	d.dict[v.Name] = entry{cmd: cmd, verb: v}
}

// Lookup finds the command for verb, ignoring case.
func (d *Dictionary) Lookup(verb string) (Command, bool) {
	e, ok := d.dict[strings.ToLower(verb)]
	if !ok {
		return nil, false
	}
	return e.cmd, true
}

// Verbs lists the known verbs sorted by name.
func (d *Dictionary) Verbs() []Verb {
	verbs := make([]Verb, 0, len(d.dict))
	for _, e := range d.dict {
		verbs = append(verbs, e.verb)
	}
	sort.Slice(verbs, func(i, j int) bool { return verbs[i].Name < verbs[j].Name })
	return verbs
}

// Split separates a command line into its verb and the raw argument that
// follows it. The argument keeps its leading space.
func Split(line string) (verb, arg string) {
	line = strings.TrimLeft(line, " \t")
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], line[i:]
	}
	return line, ""
}

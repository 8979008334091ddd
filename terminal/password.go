package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// PasswordReader reads passwords without echo when in is a terminal and as
// a plain line otherwise (piped input, tests).
type PasswordReader struct {
	in  *os.File
	out io.Writer
}

// NewPasswordReader prompts on out and reads from in
func NewPasswordReader(in *os.File, out io.Writer) *PasswordReader {
	return &PasswordReader{in: in, out: out}
}

// ReadPassword prints prompt and returns the entered password
func (r *PasswordReader) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)

	fd := int(r.in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(r.out)
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(r.in).ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", errors.Wrap(err, "read password")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/jlaffaye/ftp"
	"github.com/pkg/errors"
)

type login struct {
	out      Output
	password PasswordFunc
}

func (c *login) Execute(s Session, arg string) error {
	user := strings.TrimSpace(arg)
	if user == "" {
		return usage("login <user>")
	}
	if !s.SetUsername(user) {
		return errors.Errorf("user %s was not accepted", user)
	}
	if s.IsAuthenticated() {
		c.out.Successf("Logged in as %s", user)
		return nil
	}

	pass, err := c.password("Password: ")
	if err != nil {
		return errors.Wrap(err, "read password")
	}
	if !s.Authenticate(pass) {
		return errors.New("login incorrect")
	}
	c.out.Successf("Logged in as %s", user)
	return nil
}

type cd struct {
	out Output
}

func (c *cd) Execute(s Session, arg string) error {
	dir := strings.TrimSpace(arg)
	if dir == "" {
		return usage("cd <dir>")
	}
	reply, err := s.Command("CWD " + dir)
	if err != nil {
		return err
	}
	if !is(reply, ftp.StatusRequestedFileActionOK) {
		return errors.Errorf("cd %s: %s", dir, describe(reply))
	}
	c.out.Successf("Remote directory is now %s", dir)
	return nil
}

type ls struct {
	out Output
}

func (c *ls) Execute(s Session, arg string) error {
	cmd := "LIST"
	if path := strings.TrimSpace(arg); path != "" {
		cmd += " " + path
	}

	if err := openData(s); err != nil {
		return err
	}
	done, err := startTransfer(s, cmd)
	if err != nil {
		s.TeardownDataSocket()
		return err
	}

	var listing bytes.Buffer
	_, err = s.CopyData(&listing)
	s.TeardownDataSocket()
	if err != nil {
		return errors.Wrap(err, "read listing")
	}
	if err := finishTransfer(s, done); err != nil {
		return err
	}
	return c.out.Listing(ParseListing(listing.String()))
}

type get struct {
	out Output
}

func (c *get) Execute(s Session, arg string) error {
	name := strings.TrimSpace(arg)
	if name == "" {
		return usage("get <file>")
	}

	if err := openData(s); err != nil {
		return err
	}
	done, err := startTransfer(s, "RETR "+name)
	if err != nil {
		s.TeardownDataSocket()
		return err
	}

	// GetFile drops the one space the command line leaves in front
	ok := s.GetFile(" " + name)
	s.TeardownDataSocket()
	if err := finishTransfer(s, done); err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("could not store %s", name)
	}
	c.out.Successf("Downloaded %s", name)
	return nil
}

type put struct {
	out Output
}

func (c *put) Execute(s Session, arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 || len(fields) > 2 {
		return usage("put <local> [remote]")
	}
	local := fields[0]
	remote := filepath.Base(local)
	if len(fields) == 2 {
		remote = fields[1]
	}

	// refuse before STOR creates an empty remote file
	info, err := os.Stat(local)
	if err != nil {
		return errors.Wrapf(err, "put %s", local)
	}
	if info.IsDir() {
		return errors.Errorf("put %s: is a directory", local)
	}

	if err := openData(s); err != nil {
		return err
	}
	done, err := startTransfer(s, "STOR "+remote)
	if err != nil {
		s.TeardownDataSocket()
		return err
	}

	ok := s.SendFile(local, remote)
	s.TeardownDataSocket()
	if err := finishTransfer(s, done); err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("upload of %s failed", local)
	}
	c.out.Successf("Uploaded %s as %s", local, remote)
	return nil
}

type quit struct{}

func (quit) Execute(s Session, _ string) error {
	if err := s.Send("QUIT"); err == nil {
		_, _ = s.ReadClosingReply()
	}
	return ErrQuit
}

func usage(u string) error {
	return errors.Errorf("usage: %s", u)
}

func verbOf(cmd string) string {
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		return cmd[:i]
	}
	return cmd
}

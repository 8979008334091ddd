package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/JKowalsky/ftp-client/transfer"
)

// Console prints diagnostics, server replies and transfer progress in the
// active theme's colors. It satisfies session.Logger.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	theme     *ThemeManager
	table     *TableFormatter
	completer *CommandCompleter
	inBar     bool // a progress line without newline is on screen
}

// NewConsole writes to out. completer may be nil; when set, listings refresh
// its remote name cache.
func NewConsole(out io.Writer, theme *ThemeManager, completer *CommandCompleter) *Console {
	return &Console{
		out:       out,
		theme:     theme,
		table:     NewTableFormatter(out),
		completer: completer,
	}
}

// SetCompleter makes listings refresh completer's remote name cache
func (c *Console) SetCompleter(completer *CommandCompleter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completer = completer
}

// Infof prints a diagnostic or server reply. Replies are colored by the
// class of their status code.
func (c *Console) Infof(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.println(c.replyColor(msg), msg)
}

// Errorf prints a failure
func (c *Console) Errorf(format string, args ...interface{}) {
	c.println(c.theme.GetErrorColor().Sprint, fmt.Sprintf(format, args...))
}

// Successf prints a completed action
func (c *Console) Successf(format string, args ...interface{}) {
	c.println(c.theme.GetSuccessColor().Sprint, fmt.Sprintf(format, args...))
}

// Textf prints plain text in the theme's text color
func (c *Console) Textf(format string, args ...interface{}) {
	c.println(c.theme.GetTextColor().Sprint, fmt.Sprintf(format, args...))
}

func (c *Console) println(paint func(...interface{}) string, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endBar()
	fmt.Fprintln(c.out, paint(msg))
}

func (c *Console) replyColor(msg string) func(...interface{}) string {
	if len(msg) >= 3 && isDigits(msg[:3]) {
		switch msg[0] {
		case '4', '5':
			return c.theme.GetErrorColor().Sprint
		case '2':
			return c.theme.GetSuccessColor().Sprint
		}
	}
	return c.theme.GetInfoColor().Sprint
}

// Listing renders a remote directory as a table and remembers its names
// for completion.
func (c *Console) Listing(entries []*ftp.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completer != nil {
		var files, dirs []string
		for _, e := range entries {
			if e.Type == ftp.EntryTypeFolder {
				dirs = append(dirs, e.Name)
			} else {
				files = append(files, e.Name)
			}
		}
		c.completer.UpdateRemoteFiles(files, dirs)
	}
	c.endBar()
	return c.table.FormatFTPDirectory(entries)
}

// Progress redraws the transfer line. total is -1 when the size is unknown.
func (c *Console) Progress(name string, transferred, total int64, speed float64, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var line string
	if total > 0 {
		pct := float64(transferred) * 100 / float64(total)
		line = fmt.Sprintf("\r%s [%s] %5.1f%% %s/s", name, transfer.ProgressBar(pct), pct, formatSize(uint64(speed)))
	} else {
		line = fmt.Sprintf("\r%s %s %s/s %s", name, formatSize(uint64(transferred)), formatSize(uint64(speed)), elapsed.Round(time.Second))
	}
	fmt.Fprint(c.out, c.theme.GetInfoColor().Sprint(line))
	c.inBar = true
}

func (c *Console) endBar() {
	if c.inBar {
		fmt.Fprintln(c.out)
		c.inBar = false
	}
}

func isDigits(s string) bool {
	return strings.Trim(s, "0123456789") == ""
}

package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ClientConfig holds the FTP connection settings for one client run.
type ClientConfig struct {
	Host         string // Example: "ftp.gnu.org"
	Port         int
	Username     string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	ReplyPoll    time.Duration
	DataPoll     time.Duration
	Strict       bool
	MetricsFile  string // empty disables the transfer log
	Theme        string
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Host:         "127.0.0.1",
		Port:         21,
		DialTimeout:  60 * time.Second,
		WriteTimeout: 30 * time.Second,
		ReplyPoll:    50 * time.Millisecond,
		DataPoll:     2 * time.Second,
		Theme:        "dark",
	}
}

// Address returns host:port for display
func (c *ClientConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// ParseFlags parses args (without the program name). A positional host and
// port may follow the flags, the way "ftp host port" is usually invoked.
// Values from a -config file are applied first; flags and positional
// arguments override them. help is true when -h was given; usage has then
// been written to out.
func ParseFlags(args []string, out io.Writer) (cfg *ClientConfig, help bool, err error) {
	// first pass only looks for -config
	var path string
	probe := newFlagSet(DefaultConfig(), &path, io.Discard)
	_ = probe.Parse(args)

	cfg = DefaultConfig()
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, false, err
		}
	}

	fs := newFlagSet(cfg, &path, out)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, errors.Wrap(err, "parse flags")
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Host = rest[0]
	}
	if len(rest) > 1 {
		port, err := strconv.Atoi(rest[1])
		if err != nil {
			return nil, false, errors.Errorf("invalid port number: %s", rest[1])
		}
		cfg.Port = port
	}
	if len(rest) > 2 {
		return nil, false, errors.Errorf("unexpected arguments: %v", rest[2:])
	}

	return cfg, false, nil
}

func newFlagSet(cfg *ClientConfig, path *string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("ftp-client", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(path, "config", *path, "TOML file with default settings")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "FTP server host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "FTP control port")
	fs.StringVar(&cfg.Username, "user", cfg.Username, "log in as this user right after connecting")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "connect timeout")
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "bound on each command or upload write (0 waits forever)")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "bound on each blocking read (0 waits forever)")
	fs.DurationVar(&cfg.ReplyPoll, "reply-poll", cfg.ReplyPoll, "how long to wait for more reply lines")
	fs.DurationVar(&cfg.DataPoll, "data-poll", cfg.DataPoll, "how long a quiet data connection is waited on")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "check USER/PASS replies for the positive codes")
	fs.StringVar(&cfg.MetricsFile, "metrics", cfg.MetricsFile, "append one CSV row per transfer to this file")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "terminal theme (dark|light|mono)")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: ftp-client [flags] [host [port]]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// ValidateConfig validates the parsed configuration
func ValidateConfig(cfg *ClientConfig) error {
	if cfg.Host == "" {
		return errors.New("host must not be empty")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return errors.Errorf("invalid port: %d (must be 1-65535)", cfg.Port)
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"dial timeout", cfg.DialTimeout},
		{"write timeout", cfg.WriteTimeout},
		{"read timeout", cfg.ReadTimeout},
		{"reply poll", cfg.ReplyPoll},
		{"data poll", cfg.DataPoll},
	}
	for _, d := range durations {
		if d.d < 0 {
			return errors.Errorf("%s must not be negative: %s", d.name, d.d)
		}
	}
	if cfg.ReplyPoll == 0 || cfg.DataPoll == 0 {
		return errors.New("poll windows must be positive")
	}

	return nil
}

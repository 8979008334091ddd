package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type fileConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	DialTimeout  string `toml:"dial_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	ReadTimeout  string `toml:"read_timeout"`
	ReplyPoll    string `toml:"reply_poll"`
	DataPoll     string `toml:"data_poll"`
	Strict       bool   `toml:"strict"`
	Metrics      string `toml:"metrics"`
	Theme        string `toml:"theme"`
}

// LoadFile overlays the keys present in the TOML file at path onto cfg.
// Keys the file does not define keep their current value.
func LoadFile(path string, cfg *ClientConfig) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return errors.Wrapf(err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("host") {
		cfg.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("user") {
		cfg.Username = strings.TrimSpace(raw.User)
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("metrics") {
		cfg.MetricsFile = strings.TrimSpace(raw.Metrics)
	}
	if meta.IsDefined("theme") {
		cfg.Theme = strings.TrimSpace(raw.Theme)
	}

	durations := []struct {
		key   string
		value string
		dst   *time.Duration
	}{
		{"dial_timeout", raw.DialTimeout, &cfg.DialTimeout},
		{"write_timeout", raw.WriteTimeout, &cfg.WriteTimeout},
		{"read_timeout", raw.ReadTimeout, &cfg.ReadTimeout},
		{"reply_poll", raw.ReplyPoll, &cfg.ReplyPoll},
		{"data_poll", raw.DataPoll, &cfg.DataPoll},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.value))
		if err != nil {
			return errors.Wrapf(err, "parse %s", d.key)
		}
		*d.dst = v
	}

	return nil
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/pkg/errors"

	"github.com/JKowalsky/ftp-client/commands"
	"github.com/JKowalsky/ftp-client/config"
	"github.com/JKowalsky/ftp-client/perfmetrics"
	"github.com/JKowalsky/ftp-client/session"
	"github.com/JKowalsky/ftp-client/terminal"
)

// client is the interactive program state shared by the prompt callbacks
type client struct {
	cfg       *config.ClientConfig
	theme     *terminal.ThemeManager
	console   *terminal.Console
	completer *terminal.CommandCompleter
	dict      *commands.Dictionary
	session   *session.Session
	quitting  bool
}

func main() {
	cfg, help, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if help {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	c, err := newClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		c.console.Textf("\nReceived signal: %v. Disconnecting...", sig)
		c.shutdown()
		os.Exit(0)
	}()

	c.run()
	c.shutdown()
}

func newClient(cfg *config.ClientConfig) (*client, error) {
	theme, err := terminal.NewThemeManager(cfg.Theme)
	if err != nil {
		return nil, err
	}

	c := &client{cfg: cfg, theme: theme}
	c.console = terminal.NewConsole(os.Stdout, theme, nil)

	passwords := terminal.NewPasswordReader(os.Stdin, os.Stdout)
	c.dict = commands.NewDictionary(c.console, passwords.ReadPassword)
	c.completer = terminal.NewCommandCompleter(c.dict.Verbs())
	c.console.SetCompleter(c.completer)
	c.completer.AddCommand("help", "Show available commands")
	c.completer.AddCommand("theme", "Switch the color theme")

	opts := []session.Option{
		session.WithLogger(c.console),
		session.WithDialTimeout(cfg.DialTimeout),
		session.WithWriteTimeout(cfg.WriteTimeout),
		session.WithReadTimeout(cfg.ReadTimeout),
		session.WithReplyPoll(cfg.ReplyPoll),
		session.WithDataPoll(cfg.DataPoll),
		session.WithProgress(c.console.Progress),
		session.WithTransferHook(c.logTransfer),
	}
	if cfg.Strict {
		opts = append(opts, session.WithStrictReplyCodes())
	}

	c.console.Textf("Connecting to %s ...", cfg.Address())
	c.session = session.New(cfg.Host, cfg.Port, opts...)
	if c.session.ControlValid() {
		// 220 greeting
		if _, err := c.session.ReadReply(); err != nil {
			c.console.Errorf("Error reading greeting: %v", err)
		}
	}
	return c, nil
}

func (c *client) run() {
	c.theme.GetPromptColor().Println("Welcome to the FTP client")
	c.theme.GetTextColor().Println("Type 'help' for available commands")
	fmt.Println()

	if c.cfg.Username != "" && c.session.ControlValid() {
		c.executor("login " + c.cfg.Username)
	}

	p := prompt.New(
		c.executor,
		c.completer.Completer,
		prompt.OptionTitle("FTP client"),
		prompt.OptionLivePrefix(c.prefix),
		prompt.OptionPrefixTextColor(c.theme.GetPromptTextColor()),
		prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionCompletionWordSeparator(" "),
		prompt.OptionSetExitCheckerOnInput(func(_ string, breakline bool) bool {
			return breakline && c.quitting
		}),
		prompt.OptionAddKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(*prompt.Buffer) {
				c.console.Textf("\nExiting...")
				c.shutdown()
				os.Exit(0)
			},
		}),
	)
	p.Run()
}

func (c *client) prefix() (string, bool) {
	switch {
	case !c.session.ControlValid():
		return "[offline]> ", true
	case c.session.IsAuthenticated():
		return fmt.Sprintf("[FTP %s@%s]> ", c.session.Username(), c.cfg.Host), true
	default:
		return fmt.Sprintf("[FTP %s]> ", c.cfg.Host), true
	}
}

// executor handles one input line
func (c *client) executor(input string) {
	if strings.TrimSpace(input) == "" {
		return
	}

	verb, arg := commands.Split(input)
	switch strings.ToLower(verb) {
	case "help":
		c.showHelp()
		return
	case "theme":
		c.setTheme(strings.TrimSpace(arg))
		return
	}

	cmd, ok := c.dict.Lookup(verb)
	if !ok {
		c.console.Errorf("Unknown command: %s (type 'help')", verb)
		return
	}

	err := cmd.Execute(c.session, arg)
	switch {
	case errors.Is(err, commands.ErrQuit):
		c.quitting = true
	case err != nil:
		c.console.Errorf("Error: %v", err)
	case strings.EqualFold(verb, "cd"):
		c.completer.ClearCache()
	}
}

func (c *client) showHelp() {
	c.console.Textf("\nFTP commands:")
	for _, v := range c.dict.Verbs() {
		c.console.Textf("  %-22s %s", v.Usage, v.Description)
	}
	c.console.Textf("\nOther commands:")
	c.console.Textf("  %-22s %s", "help", "Show this help")
	c.console.Textf("  %-22s %s", "theme <"+strings.Join(terminal.ThemeNames(), "|")+">", "Switch the color theme")
}

func (c *client) setTheme(name string) {
	if err := c.theme.SetTheme(name); err != nil {
		c.console.Errorf("Error: %v", err)
		return
	}
	c.console.Successf("Theme set to %s", c.theme.GetThemeName())
}

// logTransfer appends a finished transfer to the metrics CSV when enabled
func (c *client) logTransfer(stats session.TransferStats) {
	if c.cfg.MetricsFile == "" {
		return
	}
	rec := perfmetrics.Record{
		Direction: string(stats.Direction),
		FileName:  stats.Name,
		Bytes:     stats.Bytes,
		Elapsed:   stats.Elapsed,
	}
	if err := perfmetrics.LogTransfer(c.cfg.MetricsFile, rec); err != nil {
		c.console.Errorf("Error logging transfer metrics: %v", err)
	}
}

func (c *client) shutdown() {
	if err := c.session.Close(); err != nil {
		c.console.Errorf("Error closing session: %v", err)
	}
}

package terminal

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/c-bata/go-prompt"

	"github.com/JKowalsky/ftp-client/commands"
)

// localCacheTimeout is how long a local directory read is reused
const localCacheTimeout = 10 * time.Second

// CommandCompleter handles command and argument completion
type CommandCompleter struct {
	mu                sync.Mutex
	commands          []prompt.Suggest
	remoteFiles       []string
	remoteDirs        []string
	localFileCache    map[string][]string // local files by directory
	localFileCacheAge map[string]time.Time
	readDir           func(string) ([]os.DirEntry, error)
}

// NewCommandCompleter suggests the dictionary's verbs plus any added later
func NewCommandCompleter(verbs []commands.Verb) *CommandCompleter {
	c := &CommandCompleter{
		localFileCache:    make(map[string][]string),
		localFileCacheAge: make(map[string]time.Time),
		readDir:           os.ReadDir,
	}
	for _, v := range verbs {
		c.commands = append(c.commands, prompt.Suggest{Text: v.Name, Description: v.Description})
	}
	return c
}

// AddCommand adds a verb handled outside the dictionary
func (c *CommandCompleter) AddCommand(name, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = append(c.commands, prompt.Suggest{Text: name, Description: description})
	sort.Slice(c.commands, func(i, j int) bool { return c.commands[i].Text < c.commands[j].Text })
}

// UpdateRemoteFiles updates the cached remote files and directories
func (c *CommandCompleter) UpdateRemoteFiles(files, dirs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remoteFiles = files
	c.remoteDirs = dirs
}

// Completer returns suggestions for the current input
func (c *CommandCompleter) Completer(d prompt.Document) []prompt.Suggest {
	return c.suggest(d.TextBeforeCursor())
}

func (c *CommandCompleter) suggest(text string) []prompt.Suggest {
	words := strings.Fields(text)

	// still typing the verb
	if len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(text, " ")) {
		return c.suggestCommands(words)
	}

	// a fresh argument has not been started yet
	if strings.HasSuffix(text, " ") {
		return nil
	}
	return c.suggestArguments(words)
}

func (c *CommandCompleter) suggestCommands(words []string) []prompt.Suggest {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(words) == 0 {
		return append([]prompt.Suggest(nil), c.commands...)
	}

	prefix := strings.ToLower(words[0])
	var filtered []prompt.Suggest
	for _, s := range c.commands {
		if strings.HasPrefix(strings.ToLower(s.Text), prefix) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func (c *CommandCompleter) suggestArguments(words []string) []prompt.Suggest {
	lastWord := words[len(words)-1]

	switch strings.ToLower(words[0]) {
	case "cd":
		return c.suggestRemote(lastWord, true, false)
	case "get":
		return c.suggestRemote(lastWord, false, true)
	case "ls":
		return c.suggestRemote(lastWord, true, true)
	case "put":
		// second argument is a remote name
		if len(words) > 2 {
			return c.suggestRemote(lastWord, false, true)
		}
		return c.suggestLocalFiles(lastWord)
	case "theme":
		var suggestions []prompt.Suggest
		for _, name := range ThemeNames() {
			if strings.HasPrefix(name, strings.ToLower(lastWord)) {
				suggestions = append(suggestions, prompt.Suggest{Text: name, Description: "Theme"})
			}
		}
		return suggestions
	default:
		return nil
	}
}

func (c *CommandCompleter) suggestRemote(prefix string, dirs, files bool) []prompt.Suggest {
	c.mu.Lock()
	defer c.mu.Unlock()

	var suggestions []prompt.Suggest
	if dirs {
		suggestions = appendMatches(suggestions, c.remoteDirs, prefix, "Remote directory")
	}
	if files {
		suggestions = appendMatches(suggestions, c.remoteFiles, prefix, "Remote file")
	}
	return suggestions
}

// suggestLocalFiles returns local file suggestions for put
func (c *CommandCompleter) suggestLocalFiles(prefix string) []prompt.Suggest {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	files, cached := c.localFileCache[cwd]
	if !cached || time.Since(c.localFileCacheAge[cwd]) >= localCacheTimeout {
		entries, err := c.readDir(cwd)
		if err != nil {
			return nil
		}
		files = files[:0]
		for _, entry := range entries {
			if !entry.IsDir() {
				files = append(files, entry.Name())
			}
		}
		c.localFileCache[cwd] = files
		c.localFileCacheAge[cwd] = time.Now()
	}

	return appendMatches(nil, files, prefix, "Local file")
}

// appendMatches adds names starting with prefix, ignoring case. Hidden
// names only match when the prefix asks for them.
func appendMatches(suggestions []prompt.Suggest, names []string, prefix, description string) []prompt.Suggest {
	for _, name := range names {
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			suggestions = append(suggestions, prompt.Suggest{Text: name, Description: description})
		}
	}
	return suggestions
}

// ClearCache clears all cached suggestions
func (c *CommandCompleter) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remoteFiles = nil
	c.remoteDirs = nil
	c.localFileCache = make(map[string][]string)
	c.localFileCacheAge = make(map[string]time.Time)
}

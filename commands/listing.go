package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

// ParseListing turns the raw text of a LIST transfer into entries. Unix
// "ls -l" and DOS style lines are understood; anything else becomes a file
// entry named after the whole line.
func ParseListing(raw string) []*ftp.Entry {
	var entries []*ftp.Entry
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "total ") {
			continue
		}
		entries = append(entries, parseListLine(line, time.Now()))
	}
	return entries
}

func parseListLine(line string, now time.Time) *ftp.Entry {
	fields := strings.Fields(line)
	if e, ok := parseUnixLine(fields, now); ok {
		return e
	}
	if e, ok := parseDOSLine(fields); ok {
		return e
	}
	return &ftp.Entry{Name: strings.TrimSpace(line), Type: ftp.EntryTypeFile}
}

// parseUnixLine handles both 9-field and 8-field (no group) layouts:
// perms links owner [group] size month day time/year name
func parseUnixLine(fields []string, now time.Time) (*ftp.Entry, bool) {
	if len(fields) < 8 || len(fields[0]) != 10 {
		return nil, false
	}

	e := &ftp.Entry{}
	switch fields[0][0] {
	case 'd':
		e.Type = ftp.EntryTypeFolder
	case 'l':
		e.Type = ftp.EntryTypeLink
	case '-', 'b', 'c', 'p', 's':
		e.Type = ftp.EntryTypeFile
	default:
		return nil, false
	}

	sizeIdx := 4
	if _, err := strconv.ParseUint(fields[4], 10, 64); err != nil || len(fields) < 9 {
		sizeIdx = 3
	}
	size, err := strconv.ParseUint(fields[sizeIdx], 10, 64)
	if err != nil {
		return nil, false
	}
	e.Size = size
	e.Time = parseUnixTime(fields[sizeIdx+1], fields[sizeIdx+2], fields[sizeIdx+3], now)

	name := strings.Join(fields[sizeIdx+4:], " ")
	if name == "" {
		return nil, false
	}
	if e.Type == ftp.EntryTypeLink {
		if before, after, ok := strings.Cut(name, " -> "); ok {
			name = before
			e.Target = after
		}
	}
	e.Name = name
	return e, true
}

// parseUnixTime reads "Jan 2 15:04" (this year, or last year when that
// would be in the future) and "Jan 2 2006". Unknown formats give zero time.
func parseUnixTime(month, day, clockOrYear string, now time.Time) time.Time {
	value := month + " " + day + " " + clockOrYear
	if strings.Contains(clockOrYear, ":") {
		t, err := time.Parse("Jan 2 15:04", value)
		if err != nil {
			return time.Time{}
		}
		t = t.AddDate(now.Year(), 0, 0)
		if t.After(now.AddDate(0, 0, 1)) {
			t = t.AddDate(-1, 0, 0)
		}
		return t
	}
	t, err := time.Parse("Jan 2 2006", value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseDOSLine handles "01-02-06  03:04PM  <DIR>  name" and
// "01-02-06  03:04PM  1234  name".
func parseDOSLine(fields []string) (*ftp.Entry, bool) {
	if len(fields) < 4 {
		return nil, false
	}
	t, err := time.Parse("01-02-06 03:04PM", fields[0]+" "+fields[1])
	if err != nil {
		return nil, false
	}

	e := &ftp.Entry{Time: t, Name: strings.Join(fields[3:], " ")}
	if fields[2] == "<DIR>" {
		e.Type = ftp.EntryTypeFolder
		return e, true
	}
	size, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, false
	}
	e.Type = ftp.EntryTypeFile
	e.Size = size
	return e, true
}

package terminal

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// FileInfo represents a remote file or directory row
type FileInfo struct {
	Name      string
	Type      string
	Size      uint64
	Modified  time.Time
	IsDir     bool
	IsSymlink bool
	Target    string
}

// TableFormatter handles formatted table output
type TableFormatter struct {
	out   io.Writer
	table *tablewriter.Table
}

// NewTableFormatter creates a table formatter writing to out
func NewTableFormatter(out io.Writer) *TableFormatter {
	table := tablewriter.NewWriter(out)
	table.Header("Name", "Type", "Size", "Modified")
	table.Options(
		tablewriter.WithRendition(tw.Rendition{Borders: tw.Border{Left: tw.Pending, Right: tw.Pending, Top: tw.Pending, Bottom: tw.Pending}}),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.MaxWidth = 0
		cfg.Header = tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		}
		cfg.Row = tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		}
		cfg.Behavior = tw.Behavior{}
	})

	return &TableFormatter{out: out, table: table}
}

// FormatFTPDirectory formats an FTP directory listing
func (tf *TableFormatter) FormatFTPDirectory(entries []*ftp.Entry) error {
	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		files = append(files, FileInfo{
			Name:      entry.Name,
			Type:      entry.Type.String(),
			Size:      entry.Size,
			Modified:  entry.Time,
			IsDir:     entry.Type == ftp.EntryTypeFolder,
			IsSymlink: entry.Type == ftp.EntryTypeLink,
			Target:    entry.Target,
		})
	}
	return tf.renderTable(files)
}

func (tf *TableFormatter) renderTable(files []FileInfo) error {
	if len(files) == 0 {
		_, err := fmt.Fprintln(tf.out, "Directory is empty")
		return err
	}

	tf.table.Reset()
	tf.table.Header("Name", "Type", "Size", "Modified")

	for _, file := range files {
		size := formatSize(file.Size)
		if file.IsDir {
			size = "-"
		}

		modified := "-"
		if !file.Modified.IsZero() {
			modified = file.Modified.Format("Jan 02 15:04")
		}

		name := file.Name
		switch {
		case file.IsDir:
			name += "/"
		case file.IsSymlink && file.Target != "":
			name += " -> " + file.Target
		case file.IsSymlink:
			name += "@"
		}
		if len(name) > 50 {
			name = name[:47] + "..."
		}

		// extension in caps for regular files
		fileType := file.Type
		if !file.IsDir && !file.IsSymlink {
			if ext := filepath.Ext(file.Name); ext != "" {
				fileType = strings.ToUpper(strings.TrimPrefix(ext, "."))
			}
		}

		tf.table.Append([]string{name, fileType, size, modified})
	}

	return tf.table.Render()
}

// formatSize formats a file size in human-readable format
func formatSize(size uint64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := uint64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

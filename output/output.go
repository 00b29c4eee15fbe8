package output

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// Metrics summarises a backup run.
type Metrics struct {
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	TotalFiles     int    `json:"total_files"`
	DirectoryCount int    `json:"directory_count"`
	Folders        int    `json:"folders"`
	Inaccessible   int    `json:"inaccessible_folders"`
	SelectedFiles  int    `json:"selected_files"`
	SelectedBytes  int64  `json:"selected_bytes"`
	FilesCopied    int    `json:"files_copied"`
	Duplicates     int    `json:"duplicates"`
	Failures       int    `json:"failures"`
	Interrupted    bool   `json:"interrupted,omitempty"`
}

// Summary renders the final one-line report.
func (m Metrics) Summary() string {
	return fmt.Sprintf("copied=%d duplicates=%d failed=%d selected=%d",
		m.FilesCopied, m.Duplicates, m.Failures, m.SelectedFiles)
}

// appendMu serialises appends within this process. Separate processes
// writing the same log may still interleave lines.
var appendMu sync.Mutex

// WriteLines replaces the contents of path with one line per entry.
func WriteLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	buf := bufio.NewWriterSize(f, 64*1024)
	for _, line := range lines {
		if _, err := buf.WriteString(line); err != nil {
			f.Close()
			return err
		}
		if err := buf.WriteByte('\n'); err != nil {
			f.Close()
			return err
		}
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AppendLine opens path, appends line followed by a newline, and closes it.
func AppendLine(path, line string) error {
	appendMu.Lock()
	defer appendMu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

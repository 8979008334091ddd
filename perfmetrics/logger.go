package perfmetrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// CsvHeader is written once at the top of every metrics file
const CsvHeader = "Timestamp,Client,Direction,FileName,Bytes,FileSizeMB,ThroughputMBps,TimeSec\n"

// DefaultClient names the client column when Record.Client is empty
const DefaultClient = "FTP_Client"

// Record is one completed transfer
type Record struct {
	Time      time.Time
	Client    string
	Direction string
	FileName  string
	Bytes     int64
	Elapsed   time.Duration
}

// ThroughputMBps returns the transfer rate in MB/s, 0 when no time elapsed.
func (r Record) ThroughputMBps() float64 {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Bytes) / (1024 * 1024) / secs
}

func (r Record) fields() []string {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	client := r.Client
	if client == "" {
		client = DefaultClient
	}
	return []string{
		ts.Format(time.RFC3339),
		client,
		r.Direction,
		r.FileName,
		strconv.FormatInt(r.Bytes, 10),
		strconv.FormatFloat(float64(r.Bytes)/(1024*1024), 'f', 2, 64),
		strconv.FormatFloat(r.ThroughputMBps(), 'f', 2, 64),
		strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 2, 64),
	}
}

// LogTransfer appends rec to the CSV file at path, creating the file (and
// its directory) with a header first when it does not exist yet.
func LogTransfer(path string, rec Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create directory %s", dir)
		}
	}

	fileExists := true
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fileExists = false
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	if !fileExists {
		if _, err := file.WriteString(CsvHeader); err != nil {
			return errors.Wrap(err, "write header")
		}
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(rec.fields()); err != nil {
		return errors.Wrap(err, "write CSV record")
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "flush CSV writer")
}

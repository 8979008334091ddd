package session

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/JKowalsky/ftp-client/transfer"
)

// GetFile stores what the data connection delivers into a local file. The
// name is the raw command argument; one leading space left over from the
// command line is dropped. It returns false without touching the data
// connection when the destination cannot be opened or locked.
func (s *Session) GetFile(name string) bool {
	filename := strings.TrimPrefix(name, " ")

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		s.log.Errorf("Error opening %s: %v", filename, err)
		return false
	}
	defer file.Close()

	unlock, err := transfer.LockExclusive(file)
	if err != nil {
		s.log.Errorf("Error locking %s: %v", filename, err)
		return false
	}
	defer unlock()

	if err := file.Truncate(0); err != nil {
		s.log.Errorf("Error truncating %s: %v", filename, err)
		return false
	}

	if s.data == nil {
		s.log.Errorf("Error receiving %s: %v", filename, ErrNoDataConnection)
		return false
	}

	start := time.Now()
	pw := transfer.NewProgressWriter(file, -1, s.progress(filename))
	n, err := s.CopyData(pw)
	if err != nil {
		s.log.Errorf("Error receiving %s after %d bytes: %v", filename, n, err)
		return false
	}

	s.finished(TransferStats{Direction: Download, Name: filename, Bytes: n, Elapsed: time.Since(start), Speed: pw.AverageSpeed()})
	return true
}

// UploadChunk is the largest single write SendFile issues.
const UploadChunk = 32 * 1024

// SendFile writes the whole of local to the data connection and then
// tears the data connection down. remote only names the transfer. The
// write timeout bounds a stall, not the whole upload. It returns false
// without starting a worker when local cannot be opened.
func (s *Session) SendFile(local, remote string) bool {
	file, err := os.Open(local)
	if err != nil {
		s.log.Errorf("Error opening %s: %v", local, err)
		return false
	}
	defer file.Close()

	buf, err := readWhole(file)
	if err != nil {
		s.log.Errorf("Error reading %s: %v", local, err)
		return false
	}

	if s.data == nil {
		s.log.Errorf("Error sending %s: %v", local, ErrNoDataConnection)
		return false
	}

	start := time.Now()
	pw := transfer.NewProgressWriter(s.data, int64(len(buf)), s.progress(remote))
	err = runBounded("upload "+remote, s.writeTimeout, s.data, func(touch func()) error {
		defer s.TeardownDataSocket()
		return writeChunks(pw, buf, touch)
	})
	if err != nil {
		s.log.Errorf("Error sending %s: %v", local, err)
		return false
	}

	s.finished(TransferStats{Direction: Upload, Name: remote, Bytes: int64(len(buf)), Elapsed: time.Since(start), Speed: pw.AverageSpeed()})
	return true
}

// writeChunks writes buf in UploadChunk pieces and calls touch after each
// one so a steady upload never trips the inactivity bound.
func writeChunks(w io.Writer, buf []byte, touch func()) error {
	for off := 0; off < len(buf); {
		end := min(off+UploadChunk, len(buf))
		n, err := w.Write(buf[off:end])
		off += n
		if err != nil {
			return errors.Wrapf(err, "write after %d bytes", off)
		}
		touch()
	}
	return nil
}

// readWhole sizes the buffer with an end-of-file seek and fills it exactly.
func readWhole(file *os.File) ([]byte, error) {
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "seek to end")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewind")
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(file, buf); err != nil {
		return nil, errors.Wrap(err, "read file")
	}
	return buf, nil
}

func (s *Session) progress(name string) func(transferred, total int64, speed float64, elapsed time.Duration) {
	if s.onProgress == nil {
		return nil
	}
	return func(transferred, total int64, speed float64, elapsed time.Duration) {
		s.onProgress(name, transferred, total, speed, elapsed)
	}
}

func (s *Session) finished(stats TransferStats) {
	s.log.Infof("%s of %s complete: %d bytes in %s (%.2f MB/s)", stats.Direction, stats.Name, stats.Bytes,
		stats.Elapsed.Round(time.Millisecond), stats.Speed/(1024*1024))
	if s.onTransfer != nil {
		s.onTransfer(stats)
	}
}

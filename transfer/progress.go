package transfer

import (
	"io"
	"time"
)

// ProgressInterval is the minimum gap between two progress callbacks.
const ProgressInterval = 100 * time.Millisecond

// ProgressWriter wraps an io.Writer and reports how many bytes went through it.
// Total is -1 when the size is not known up front.
type ProgressWriter struct {
	Writer      io.Writer
	Total       int64
	Transferred int64
	StartTime   time.Time
	LastUpdate  time.Time
	LastBytes   int64
	OnProgress  func(transferred int64, total int64, speed float64, elapsed time.Duration)
}

// NewProgressWriter returns a writer reporting to onProgress, which may be nil.
func NewProgressWriter(w io.Writer, total int64, onProgress func(int64, int64, float64, time.Duration)) *ProgressWriter {
	return &ProgressWriter{Writer: w, Total: total, OnProgress: onProgress}
}

func (pw *ProgressWriter) Write(p []byte) (n int, err error) {
	if pw.StartTime.IsZero() {
		pw.StartTime = time.Now()
		pw.LastUpdate = pw.StartTime
	}

	n, err = pw.Writer.Write(p)
	if n <= 0 {
		return
	}
	pw.Transferred += int64(n)

	now := time.Now()
	complete := pw.Total > 0 && pw.Transferred >= pw.Total
	if now.Sub(pw.LastUpdate) < ProgressInterval && !complete {
		return
	}

	// instantaneous speed over the last interval
	speed := 0.0
	if dt := now.Sub(pw.LastUpdate).Seconds(); dt > 0 {
		speed = float64(pw.Transferred-pw.LastBytes) / dt
	}
	if pw.OnProgress != nil {
		pw.OnProgress(pw.Transferred, pw.Total, speed, now.Sub(pw.StartTime))
	}
	pw.LastUpdate = now
	pw.LastBytes = pw.Transferred
	return
}

// AverageSpeed returns bytes per second since the first write.
func (pw *ProgressWriter) AverageSpeed() float64 {
	if pw.StartTime.IsZero() {
		return 0
	}
	elapsed := time.Since(pw.StartTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(pw.Transferred) / elapsed
}

// ProgressBar renders a 50 column bar for progress in percent.
func ProgressBar(progress float64) string {
	const width = 50
	pos := int(float64(width) * progress / 100)
	bar := make([]rune, width)
	for i := range bar {
		switch {
		case i < pos:
			bar[i] = '='
		case i == pos:
			bar[i] = '>'
		default:
			bar[i] = ' '
		}
	}
	return string(bar)
}

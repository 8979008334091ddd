package perfmetrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogTransferWritesHeaderOnce(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "metrics", "transfers.csv")

	recs := []Record{
		{Direction: "download", FileName: "a.txt", Bytes: 2 * 1024 * 1024, Elapsed: 2 * time.Second},
		{Client: "bench", Direction: "upload", FileName: "b, with comma.bin", Bytes: 10},
	}
	for _, rec := range recs {
		if err := LogTransfer(path, rec); err != nil {
			t.Fatalf("LogTransfer() = %v", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(raw), "Timestamp,"); n != 1 {
		t.Errorf("header written %d times", n)
	}

	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	first, second := rows[1], rows[2]
	if first[1] != DefaultClient || first[2] != "download" || first[5] != "2.00" || first[6] != "1.00" {
		t.Errorf("first row = %v", first)
	}
	if second[1] != "bench" || second[3] != "b, with comma.bin" || second[6] != "0.00" {
		t.Errorf("second row = %v", second)
	}
}

func TestThroughputMBps(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rec  Record
		want float64
	}{
		{Record{Bytes: 1024 * 1024, Elapsed: time.Second}, 1},
		{Record{Bytes: 5 * 1024 * 1024, Elapsed: 2 * time.Second}, 2.5},
		{Record{Bytes: 100}, 0},
	}
	for _, tt := range tests {
		if got := tt.rec.ThroughputMBps(); got != tt.want {
			t.Errorf("ThroughputMBps(%+v) = %v, want %v", tt.rec, got, tt.want)
		}
	}
}

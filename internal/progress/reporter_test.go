package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{256 * 1024 * 1024, "256.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1024 * 1024 * 1024 * 1024, "1.00 TB"},
	}

	for _, tt := range tests {
		result := FormatBytes(tt.input)
		if result != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"100", 100},
		{"100B", 100},
		{"1KB", 1024},
		{"1.5KB", 1536},
		{"64MB", 64 * 1024 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"1TB", 1024 * 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		result, err := ParseBytes(tt.input)
		if err != nil {
			t.Errorf("ParseBytes(%q): %v", tt.input, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, result, tt.expected)
		}
	}
}

func TestParseBytesInvalid(t *testing.T) {
	if _, err := ParseBytes("invalid"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestReporterChunkTracking(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(Options{
		TotalSize:   1024,
		TotalChunks: 4,
		Concurrency: 2,
		Output:      &out,
	})

	reporter.ChunkStarted()
	if reporter.inFlight.Load() != 1 {
		t.Errorf("expected 1 in flight, got %d", reporter.inFlight.Load())
	}

	reporter.ChunkCompleted(256)
	if reporter.inFlight.Load() != 0 {
		t.Errorf("expected 0 in flight after completion, got %d", reporter.inFlight.Load())
	}
	if reporter.completedChunks.Load() != 1 {
		t.Errorf("expected 1 completed, got %d", reporter.completedChunks.Load())
	}
	if reporter.completedBytes.Load() != 256 {
		t.Errorf("expected 256 bytes, got %d", reporter.completedBytes.Load())
	}

	reporter.ChunkStarted()
	reporter.ChunkFailed()
	if reporter.inFlight.Load() != 0 {
		t.Errorf("expected 0 in flight after failure, got %d", reporter.inFlight.Load())
	}
}

func TestReporterStartStop(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(Options{
		TotalSize:      1024 * 1024,
		TotalChunks:    4,
		Concurrency:    2,
		ChunkSize:      256 * 1024,
		Source:         "s3://bucket/file.bin",
		Output:         &out,
		UpdateInterval: 10 * time.Millisecond,
	})

	reporter.Start()

	reporter.ChunkStarted()
	reporter.ChunkCompleted(256 * 1024)
	reporter.ChunkStarted()
	reporter.ChunkCompleted(256 * 1024)

	time.Sleep(50 * time.Millisecond)

	reporter.Stop()
	reporter.Stop() // second Stop must not panic

	if reporter.completedChunks.Load() != 2 {
		t.Errorf("expected 2 completed chunks, got %d", reporter.completedChunks.Load())
	}
	if !strings.Contains(out.String(), "s3://bucket/file.bin") {
		t.Error("expected header to name the source")
	}
}

func TestReporterMilestone(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(Options{Output: &out})

	reporter.Milestone(10, 75)
	if !strings.Contains(out.String(), "10/75") {
		t.Errorf("milestone output missing count: %q", out.String())
	}
}

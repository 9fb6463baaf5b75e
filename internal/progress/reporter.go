package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalSize is the object size in bytes.
	TotalSize int64

	// TotalChunks is the number of ranges in the download plan.
	TotalChunks int

	// Concurrency is the number of parallel fetches (for display).
	Concurrency int

	// ChunkSize is the planned chunk size (for display).
	ChunkSize int64

	// Source names what is being downloaded (for display).
	Source string

	// Output is where progress is written. Default: os.Stderr.
	Output io.Writer

	// UpdateInterval is how often the live display refreshes.
	// Default: 500ms.
	UpdateInterval time.Duration
}

// Reporter tracks and displays download progress.
type Reporter struct {
	opts Options

	completedBytes  atomic.Int64
	completedChunks atomic.Int32
	inFlight        atomic.Int32

	mu        sync.Mutex
	startTime time.Time
	lastTime  time.Time
	lastBytes int64
	started   bool
	stopped   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewReporter creates a reporter. Call Start to begin output.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}
	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start prints the download parameters and begins the refresh loop.
func (r *Reporter) Start() {
	now := time.Now()
	r.mu.Lock()
	r.startTime = now
	r.lastTime = now
	r.started = true
	r.mu.Unlock()

	fmt.Fprintf(r.opts.Output, "[memrun] Fetching %s\n", r.opts.Source)
	fmt.Fprintf(r.opts.Output, "[memrun] Size: %s | Chunks: %d x %s | Concurrency: %d\n",
		FormatBytes(r.opts.TotalSize),
		r.opts.TotalChunks,
		FormatBytes(r.opts.ChunkSize),
		r.opts.Concurrency,
	)

	go r.refreshLoop()
}

// Stop halts the refresh loop, prints a final summary and waits for the
// last write to finish. Safe to call more than once.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	started := r.started
	r.mu.Unlock()

	close(r.stopCh)
	if started {
		<-r.doneCh
	}
}

// ChunkStarted records one fetch entering flight.
func (r *Reporter) ChunkStarted() {
	r.inFlight.Add(1)
}

// ChunkCompleted records a successfully fetched and written chunk.
func (r *Reporter) ChunkCompleted(size int64) {
	r.completedBytes.Add(size)
	r.completedChunks.Add(1)
	r.inFlight.Add(-1)
}

// ChunkFailed records a failed fetch leaving flight.
func (r *Reporter) ChunkFailed() {
	r.inFlight.Add(-1)
}

// Milestone prints a completion marker line, used by the downloader every
// few chunks and on the final chunk.
func (r *Reporter) Milestone(done, total int) {
	fmt.Fprintf(r.opts.Output, "[memrun] Downloaded %d/%d chunks\n", done, total)
}

func (r *Reporter) refreshLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printSummary()
			return
		case <-ticker.C:
			r.printStatus()
		}
	}
}

func (r *Reporter) printStatus() {
	now := time.Now()
	completed := r.completedBytes.Load()

	r.mu.Lock()
	elapsed := now.Sub(r.lastTime).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(completed-r.lastBytes) / elapsed
	r.lastTime = now
	r.lastBytes = completed
	r.mu.Unlock()

	var percent float64
	eta := "calculating"
	if r.opts.TotalSize > 0 {
		percent = float64(completed) / float64(r.opts.TotalSize) * 100
		if speed > 0 {
			remaining := float64(r.opts.TotalSize-completed) / speed
			eta = formatDuration(time.Duration(remaining * float64(time.Second)))
		}
	}

	fmt.Fprintf(r.opts.Output, "\r[memrun] %5.1f%% | %s / %s | %s/s | ETA %s | in-flight %d   ",
		percent,
		FormatBytes(completed),
		FormatBytes(r.opts.TotalSize),
		FormatBytes(int64(speed)),
		eta,
		r.inFlight.Load(),
	)
}

func (r *Reporter) printSummary() {
	completed := r.completedBytes.Load()

	r.mu.Lock()
	duration := time.Since(r.startTime)
	r.mu.Unlock()

	secs := duration.Seconds()
	if secs <= 0 {
		secs = 1
	}
	avg := float64(completed) / secs
	fmt.Fprintf(r.opts.Output, "\r[memrun] Downloaded %s in %s (%s/s)            \n",
		FormatBytes(completed),
		formatDuration(duration),
		FormatBytes(int64(avg)),
	)
}

// FormatBytes renders a byte count as a human-readable string.
func FormatBytes(b int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
		tb = gb * 1024
	)

	switch {
	case b >= tb:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(tb))
	case b >= gb:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// ParseBytes parses a human-readable byte string such as "64MB" or "1.5GB".
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1

	switch {
	case hasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	if _, err := fmt.Sscanf(s, "%f", &value); err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm %ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

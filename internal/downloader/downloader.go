package downloader

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ligustah/memrun/internal/progress"
	"github.com/ligustah/memrun/internal/sizing"
	"github.com/ligustah/memrun/pkg/memfd"
)

// milestoneInterval is how many completed chunks pass between progress
// milestone events.
const milestoneInterval = 10

// Source provides the two object-store operations the downloader needs.
type Source interface {
	// Size returns the object's total size in bytes.
	Size(ctx context.Context, key string) (int64, error)

	// ReadRange returns the body of the inclusive byte range [start, end].
	ReadRange(ctx context.Context, key string, start, end int64) ([]byte, error)
}

// Options configures planning and execution.
type Options struct {
	// ChunkSize overrides the size-derived chunk size when positive.
	ChunkSize int64

	// Concurrency overrides the size-derived fetch parallelism when
	// positive.
	Concurrency int

	// Progress is an optional progress reporter.
	Progress *progress.Reporter
}

// Range is an inclusive byte range within the object.
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of bytes the range covers.
func (r Range) Len() int64 { return r.End - r.Start + 1 }

func (r Range) String() string { return fmt.Sprintf("bytes=%d-%d", r.Start, r.End) }

// Plan is the immutable partition of an object into byte ranges plus the
// concurrency to apply. Ranges are contiguous, non-overlapping, start at
// zero and cover exactly TotalSize bytes.
type Plan struct {
	TotalSize   int64
	ChunkSize   int64
	Concurrency int
	Ranges      []Range
}

// MetadataError reports a failed size probe.
type MetadataError struct {
	Key string
	Err error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("object metadata for %s: %v", e.Key, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// TransferError reports a ranged fetch that failed or returned a body of
// the wrong length.
type TransferError struct {
	Start int64
	End   int64
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("fetch bytes=%d-%d: %v", e.Start, e.End, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// WriteError reports a failed positioned write into the memory file.
type WriteError struct {
	Offset int64
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write at offset %d: %v", e.Offset, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// NewPlan probes the object's size and builds the download plan. The plan
// is deterministic for a given size and options.
func NewPlan(ctx context.Context, src Source, key string, opts Options) (*Plan, error) {
	size, err := src.Size(ctx, key)
	if err != nil {
		return nil, &MetadataError{Key: key, Err: err}
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = sizing.ChunkSize(size)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = sizing.Concurrency(size)
	}

	plan := &Plan{
		TotalSize:   size,
		ChunkSize:   chunkSize,
		Concurrency: concurrency,
	}
	for start := int64(0); start < size; {
		end := start + chunkSize - 1
		if end > size-1 {
			end = size - 1
		}
		plan.Ranges = append(plan.Ranges, Range{Start: start, End: end})
		start = end + 1
	}
	return plan, nil
}

// Execute pre-sizes buf to plan.TotalSize and downloads every range of the
// plan into it with at most plan.Concurrency fetches in flight. It returns
// nil only when every range was fetched and written; on failure it stops
// admitting new ranges, waits for in-flight fetches to drain and returns
// the first error.
func Execute(ctx context.Context, src Source, key string, plan *Plan, buf *memfd.File, opts Options) error {
	if err := buf.Preallocate(plan.TotalSize); err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	total := len(plan.Ranges)
	var completed atomic.Int64

	jobs := make(chan Range)
	var wg sync.WaitGroup

	for i := 0; i < plan.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				if err := fetchRange(ctx, src, key, r, buf, opts.Progress); err != nil {
					fail(err)
					continue
				}
				done := completed.Add(1)
				if opts.Progress != nil && (done%milestoneInterval == 0 || done == int64(total)) {
					opts.Progress.Milestone(int(done), total)
				}
			}
		}()
	}

	// Admit ranges until done or the first failure. In-flight fetches are
	// never cancelled; they drain before Execute returns.
feed:
	for _, r := range plan.Ranges {
		if failed() {
			break
		}
		select {
		case jobs <- r:
		case <-ctx.Done():
			fail(ctx.Err())
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return firstErr
}

// fetchRange performs one admitted fetch-and-write.
func fetchRange(ctx context.Context, src Source, key string, r Range, buf *memfd.File, reporter *progress.Reporter) error {
	if reporter != nil {
		reporter.ChunkStarted()
	}

	body, err := src.ReadRange(ctx, key, r.Start, r.End)
	if err != nil {
		if reporter != nil {
			reporter.ChunkFailed()
		}
		return &TransferError{Start: r.Start, End: r.End, Err: err}
	}
	if int64(len(body)) != r.Len() {
		if reporter != nil {
			reporter.ChunkFailed()
		}
		return &TransferError{
			Start: r.Start,
			End:   r.End,
			Err:   fmt.Errorf("body length %d, want %d", len(body), r.Len()),
		}
	}

	if err := buf.WriteAt(body, r.Start); err != nil {
		if reporter != nil {
			reporter.ChunkFailed()
		}
		return &WriteError{Offset: r.Start, Err: err}
	}

	if reporter != nil {
		reporter.ChunkCompleted(r.Len())
	}
	return nil
}

// Command memrun downloads one object from blob storage into an anonymous
// memory file and replaces itself with a target program that reads the
// data through /proc/self/fd. Nothing is written to disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/memrun/internal/config"
	"github.com/ligustah/memrun/internal/downloader"
	"github.com/ligustah/memrun/internal/handoff"
	"github.com/ligustah/memrun/internal/progress"
	"github.com/ligustah/memrun/internal/store"
	"github.com/ligustah/memrun/pkg/memfd"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitInvalidArgs     = 2
	ExitMetadataError   = 3
	ExitAllocationError = 4
	ExitTransferError   = 5
	ExitExecError       = 6
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("memrun", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "Path to YAML configuration file")
	bucket := fs.String("bucket", "", "Bucket URL, e.g. s3://my-bucket?region=us-east-1 (or MEMRUN_BUCKET)")
	object := fs.String("object", "", "Object key within the bucket (or MEMRUN_OBJECT)")
	placeholder := fs.String("placeholder", "", "Token replaced with the memory file path in command arguments (default "+config.DefaultPlaceholder+")")
	chunkSize := fs.String("chunk-size", "", "Chunk size, e.g. 64MB (default: derived from object size)")
	concurrency := fs.Int("concurrency", 0, "Number of parallel fetches (default: derived from object size)")
	showProgress := fs.Bool("progress", false, "Show live download progress")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: memrun [options] <program> [args...]

Download an object from blob storage into an anonymous memory file, then
replace this process with <program>. Every occurrence of the placeholder
token in the program arguments is substituted with the memory file path.

Example:
  memrun -bucket s3://models -object llama.gguf ./server --model {{memfd}}

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	command := fs.Args()
	if len(command) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no program to execute")
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		fileCfg, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = cfg.Merge(fileCfg)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	cfg = cfg.Merge(config.Config{
		Bucket:      *bucket,
		Object:      *object,
		Placeholder: *placeholder,
		Concurrency: *concurrency,
		Progress:    *showProgress,
	})
	if *chunkSize != "" {
		size, err := progress.ParseBytes(*chunkSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: parse -chunk-size: %v\n", err)
			return ExitInvalidArgs
		}
		cfg.ChunkSize = size
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	program := command[0]
	if _, err := os.Stat(program); err != nil {
		fmt.Fprintf(os.Stderr, "Error: program %s: %v\n", program, err)
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[memrun] Received interrupt, shutting down...")
		cancel()
	}()

	return fetchAndExec(ctx, cfg, program, command[1:])
}

// fetchAndExec walks the run through its stages: plan, download,
// materialize, hand off. On success it never returns because the process
// image is replaced.
func fetchAndExec(ctx context.Context, cfg config.Config, program string, progArgs []string) int {
	src, err := store.Open(ctx, cfg.Bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitMetadataError
	}
	defer src.Close()

	plan, err := downloader.NewPlan(ctx, src, cfg.Object, downloader.Options{
		ChunkSize:   cfg.ChunkSize,
		Concurrency: cfg.Concurrency,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	fmt.Fprintf(os.Stderr, "[memrun] %s: %s in %d chunks, concurrency %d\n",
		cfg.Object,
		progress.FormatBytes(plan.TotalSize),
		len(plan.Ranges),
		plan.Concurrency,
	)

	buf, err := memfd.Create("memrun")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	defer buf.Close()

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalSize:   plan.TotalSize,
			TotalChunks: len(plan.Ranges),
			Concurrency: plan.Concurrency,
			ChunkSize:   plan.ChunkSize,
			Source:      cfg.Bucket + "/" + cfg.Object,
		})
		reporter.Start()
	}

	err = downloader.Execute(ctx, src, cfg.Object, plan, buf, downloader.Options{Progress: reporter})
	if reporter != nil {
		reporter.Stop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	ref, err := buf.Finalize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	finalArgs := handoff.SubstituteArgs(progArgs, cfg.Placeholder, ref.Path())

	fmt.Fprintf(os.Stderr, "[memrun] Executing %s\n", program)
	if err := handoff.Exec(program, finalArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitExecError
	}
	return ExitSuccess
}

// exitCode maps a failure to the exit code of its stage.
func exitCode(err error) int {
	var (
		metaErr     *downloader.MetadataError
		allocErr    *memfd.AllocationError
		transferErr *downloader.TransferError
		writeErr    *downloader.WriteError
		execErr     *handoff.ExecError
	)
	switch {
	case errors.As(err, &metaErr):
		return ExitMetadataError
	case errors.As(err, &allocErr):
		return ExitAllocationError
	case errors.As(err, &transferErr), errors.As(err, &writeErr):
		return ExitTransferError
	case errors.As(err, &execErr):
		return ExitExecError
	default:
		return ExitGeneralError
	}
}

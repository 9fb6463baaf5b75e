package sizing

import "math"

// Chunk size and parallelism bounds. Tuned for object-store downloads:
// chunks below 4MB waste round trips, chunks above 128MB hold too much
// memory per in-flight fetch.
const (
	MinChunkSize = 4 * 1024 * 1024
	MaxChunkSize = 128 * 1024 * 1024

	MinConcurrency = 4
	MaxConcurrency = 16

	// targetChunks balances per-request overhead against parallelism.
	targetChunks = 75
)

// Concurrency scales linearly between these object sizes.
const (
	scaleFloorGB = 0.5
	scaleCeilGB  = 10.0
)

// ChunkSize returns the chunk size for an object of totalSize bytes,
// aiming for roughly targetChunks chunks and clamping to
// [MinChunkSize, MaxChunkSize]. Non-decreasing in totalSize.
func ChunkSize(totalSize int64) int64 {
	ideal := totalSize / targetChunks
	if ideal < MinChunkSize {
		return MinChunkSize
	}
	if ideal > MaxChunkSize {
		return MaxChunkSize
	}
	return ideal
}

// Concurrency returns how many fetches may be in flight for an object of
// totalSize bytes: MinConcurrency up to 0.5GB, MaxConcurrency from 10GB,
// linear in between. Non-decreasing in totalSize.
func Concurrency(totalSize int64) int {
	gb := float64(totalSize) / (1 << 30)
	switch {
	case gb <= scaleFloorGB:
		return MinConcurrency
	case gb >= scaleCeilGB:
		return MaxConcurrency
	}

	scale := (gb - scaleFloorGB) / (scaleCeilGB - scaleFloorGB)
	return MinConcurrency + int(math.Round(scale*float64(MaxConcurrency-MinConcurrency)))
}

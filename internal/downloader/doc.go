// Package downloader plans and executes the parallel download of one
// object into an anonymous memory file.
//
// # Plan
//
// [NewPlan] probes the object's size once, derives chunk size and
// concurrency from the sizing policy (or explicit overrides) and
// partitions [0, size) into contiguous, non-overlapping inclusive byte
// ranges. The plan is immutable and reproducible: the same size and
// options always yield the same plan.
//
// # Execute
//
// [Execute] pre-sizes the memory file, then runs the plan's ranges through
// a pool of exactly plan.Concurrency workers. Receiving a range from the
// jobs channel is the admission slot; a worker holds it for one fetch and
// releases it when the fetch settles. Each fetched body is length-checked
// and written at its range's offset. Because ranges never overlap, the
// workers need no lock around the file.
//
// # Failure
//
// The download is all-or-nothing. On the first failure no new ranges are
// admitted, but fetches already in flight drain to completion before
// Execute returns the first error, so no I/O is left dangling. There are
// no retries and no partial results; the caller never sees a half-filled
// file presented as success.
package downloader

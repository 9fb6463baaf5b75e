// Package memfd provides anonymous memory-backed files: byte stores with
// file semantics but no entry in any directory namespace.
//
// A [File] is created at a fixed size and written with positioned writes.
// Concurrent writers are safe as long as their ranges do not overlap; the
// package does not verify that, it is the caller's contract.
//
// # Handoff
//
// The descriptor is created without close-on-exec so a child process can
// inherit it. [File.Finalize] transfers ownership out of the process-local
// handle: it returns a [Ref] holding the /proc/self/fd path and disarms
// [File.Close], so the descriptor deliberately survives until the process
// image is replaced. The descriptor is consumed, not leaked.
//
// # Platform support
//
// The implementation uses the Linux memfd_create(2) system call. On other
// platforms [Create] fails with [ErrUnsupported]; there is no portable
// fallback, and pretending otherwise would hide the dependency.
package memfd

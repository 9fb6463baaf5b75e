package memfd

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by Create on platforms without anonymous
// memory files.
var ErrUnsupported = errors.New("memfd: anonymous memory files are only supported on linux")

// ErrConsumed is returned by Finalize when ownership has already been
// transferred.
var ErrConsumed = errors.New("memfd: file already handed off")

// AllocationError reports a failed creation or pre-sizing of a memory file.
type AllocationError struct {
	Op  string
	Err error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("memfd: %s: %v", e.Op, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// File is an anonymous memory-backed file. The zero value is not usable;
// obtain one from Create.
//
// File holds the raw descriptor rather than an *os.File so that no
// finalizer can close it behind our back between Finalize and exec.
type File struct {
	fd       int
	name     string
	size     int64
	consumed bool
}

// Ref is an external, path-based reference to a memory file whose
// descriptor has been handed off. The path stays resolvable for as long as
// the descriptor lives, which by contract is until the process image is
// replaced.
type Ref struct {
	path string
}

// Path returns the /proc path under which the descriptor is visible.
func (r *Ref) Path() string { return r.path }

// Create allocates a new anonymous memory file.
func Create(name string) (*File, error) {
	fd, err := create(name)
	if err != nil {
		return nil, &AllocationError{Op: "create " + name, Err: err}
	}
	return &File{fd: fd, name: name}, nil
}

// Preallocate fixes the file's logical size. Writers never grow the file,
// so this must be called once, before any write.
func (f *File) Preallocate(size int64) error {
	if err := preallocate(f.fd, size); err != nil {
		return &AllocationError{Op: fmt.Sprintf("preallocate %d bytes", size), Err: err}
	}
	f.size = size
	return nil
}

// WriteAt writes p starting at offset off. off+len(p) must not exceed the
// preallocated size. Safe to call from multiple goroutines provided their
// ranges are disjoint; the file does not reverify that.
func (f *File) WriteAt(p []byte, off int64) error {
	return writeAt(f.fd, p, off)
}

// Path returns the path under which the live descriptor is visible in this
// process's handle namespace.
func (f *File) Path() string { return fdPath(f.fd) }

// Size returns the preallocated size.
func (f *File) Size() int64 { return f.size }

// Fd returns the raw descriptor.
func (f *File) Fd() int { return f.fd }

// Finalize transfers ownership of the descriptor into the returned Ref.
// After Finalize the file must not be written, and Close becomes a no-op:
// the descriptor has to outlive this process's handle so that an exec'd
// image still finds it open.
func (f *File) Finalize() (*Ref, error) {
	if f.consumed {
		return nil, ErrConsumed
	}
	f.consumed = true
	return &Ref{path: fdPath(f.fd)}, nil
}

// Close releases the descriptor unless ownership was transferred via
// Finalize.
func (f *File) Close() error {
	if f.consumed || f.fd < 0 {
		return nil
	}
	fd := f.fd
	f.fd = -1
	return closeFD(fd)
}

// Package handoff starts the target program against the downloaded memory
// file by replacing the current process image.
//
// The memory file's path is injected by textual substitution of a
// placeholder token in the program's argument list. Exec never returns on
// success; the inherited descriptor keeps the /proc path resolvable in the
// child because it was opened without close-on-exec and is never closed by
// the parent after finalization.
package handoff

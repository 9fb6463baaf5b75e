// Package progress reports download progress to a terminal.
//
// The reporter is a side channel: the download works identically with or
// without one. It counts chunk events with atomics, so the downloader's
// workers can call it concurrently, and a background ticker renders the
// current state. Output goes to stderr by default because stdout belongs
// to the program that will be exec'd.
package progress

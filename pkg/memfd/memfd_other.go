//go:build !linux

package memfd

func create(string) (int, error) { return -1, ErrUnsupported }

func preallocate(int, int64) error { return ErrUnsupported }

func writeAt(int, []byte, int64) error { return ErrUnsupported }

func fdPath(int) string { return "" }

func closeFD(int) error { return nil }

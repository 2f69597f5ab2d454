//go:build windows
// +build windows

package storage

import (
	"os"

	"golang.org/x/sys/windows"
)

// lockFileExclusive takes the write lock
func lockFileExclusive(f *os.File) error {
	return lockFileEx(f, windows.LOCKFILE_EXCLUSIVE_LOCK)
}

// lockFileShared takes the read lock
func lockFileShared(f *os.File) error {
	return lockFileEx(f, 0)
}

func unlockFile(f *os.File) error {
	var ol windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, &ol)
}

func lockFileEx(f *os.File, flags uint32) error {
	var ol windows.Overlapped
	return windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, 1, 0, &ol)
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File stores each key as <dir>/<key>.json.
//
// Writes go to a temp file that is renamed over the target, so readers never
// see a partial value. A sibling <key>.lock file is flocked around every
// read and write so two provmgr processes do not interleave. The previous
// value is kept as a rotated backup before each overwrite.
type File struct {
	dir     string
	backups *BackupManager
}

var (
	_ Backing  = (*File)(nil)
	_ Restorer = (*File)(nil)
)

// NewFile creates a file backing rooted at dir.
func NewFile(dir string, backups int) *File {
	return &File{dir: dir, backups: NewBackupManager(backups)}
}

// Path returns the file that holds key.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	unlock, err := f.lock(key, false)
	if err != nil {
		return "", false, err
	}
	defer unlock()

	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *File) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	unlock, err := f.lock(key, true)
	if err != nil {
		return err
	}
	defer unlock()

	path := f.Path(key)
	backup := FileExists(path)
	if backup {
		if _, err := f.backups.CreateBackup(path); err != nil {
			return err
		}
	}

	if err := AtomicWrite(path, []byte(value)); err != nil {
		return err
	}

	if backup {
		// Rotation failure leaves extra backups behind; the write itself succeeded.
		_ = f.backups.CleanupOldBackups(path)
	}
	return nil
}

func (f *File) Close() error { return nil }

// Restore puts the newest backup of key back in place. The value it replaces
// is kept as <key>.json.corrupt.
func (f *File) Restore(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}

	unlock, err := f.lock(key, true)
	if err != nil {
		return "", err
	}
	defer unlock()

	path := f.Path(key)
	if FileExists(path) {
		if err := copyFile(path, path+".corrupt"); err != nil {
			return "", fmt.Errorf("failed to keep corrupt %s: %w", key, err)
		}
	}
	if err := f.backups.RestoreFromLatestBackup(path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read restored %s: %w", key, err)
	}
	return string(data), nil
}

// Backups exposes the backup manager for the key files.
func (f *File) Backups() *BackupManager {
	return f.backups
}

func (f *File) lock(key string, exclusive bool) (func(), error) {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	lf, err := os.OpenFile(filepath.Join(f.dir, key+".lock"), os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if exclusive {
		err = lockFileExclusive(lf)
	} else {
		err = lockFileShared(lf)
	}
	if err != nil {
		lf.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", key, err)
	}

	return func() {
		_ = unlockFile(lf)
		lf.Close()
	}, nil
}

func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AtomicWrite replaces path with data via a temp file in the same directory.
// The result always has 0600 permissions since values may hold API keys.
func AtomicWrite(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// AtomicFileUpdate backs up an existing file, atomically replaces it, then
// rotates old backups.
func AtomicFileUpdate(filePath string, newContent string, createBackup bool) error {
	bm := NewBackupManager(DefaultBackupRetention)
	if createBackup && FileExists(filePath) {
		if _, err := bm.CreateBackup(filePath); err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
	}

	if err := AtomicWrite(filePath, []byte(newContent)); err != nil {
		return err
	}

	if createBackup {
		_ = bm.CleanupOldBackups(filePath)
	}
	return nil
}

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultBackupRetention is the default number of backups to keep
const DefaultBackupRetention = 3

// backupStamp sorts lexically in creation order.
const backupStamp = "20060102T150405.000000000"

// BackupManager rotates timestamped copies of a file before it is overwritten
type BackupManager struct {
	// MaxBackups is the maximum number of backups to retain
	MaxBackups int
}

// NewBackupManager creates a BackupManager; non-positive values use the default retention
func NewBackupManager(maxBackups int) *BackupManager {
	if maxBackups <= 0 {
		maxBackups = DefaultBackupRetention
	}
	return &BackupManager{MaxBackups: maxBackups}
}

// CreateBackup copies filePath to filePath.backup-<timestamp>-<pid>
func (bm *BackupManager) CreateBackup(filePath string) (string, error) {
	backupPath := fmt.Sprintf("%s.backup-%s-%d", filePath, time.Now().UTC().Format(backupStamp), os.Getpid())

	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backupPath, nil
}

// ListBackups returns all backups of filePath, oldest first
func (bm *BackupManager) ListBackups(filePath string) ([]string, error) {
	backupFiles, err := filepath.Glob(filePath + ".backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	sort.Strings(backupFiles)
	return backupFiles, nil
}

// CleanupOldBackups removes old backup files, retaining only the most recent MaxBackups
func (bm *BackupManager) CleanupOldBackups(filePath string) error {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}

	numToRemove := len(backupFiles) - bm.MaxBackups
	if numToRemove <= 0 {
		return nil
	}

	for _, oldBackup := range backupFiles[:numToRemove] {
		if err := os.Remove(oldBackup); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", oldBackup, err)
		}
	}
	return nil
}

// RestoreFromLatestBackup copies the most recent backup back over filePath
func (bm *BackupManager) RestoreFromLatestBackup(filePath string) error {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}
	if len(backupFiles) == 0 {
		return fmt.Errorf("no backup files found for %s", filePath)
	}

	latest := backupFiles[len(backupFiles)-1]
	if err := copyFile(latest, filePath); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}
	return nil
}

// copyFile copies src to dst, preserving the permission bits
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// Package backup archives the storage root into timestamped tarballs
package backup

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupManager handles all backup operations
type BackupManager struct {
	BackupPath string // where tarballs are written
	Retention  int    // how many tarballs to keep, 0 keeps all
}

// NewBackupManager creates a new backup manager
func NewBackupManager(backupPath string, retention int) *BackupManager {
	return &BackupManager{
		BackupPath: backupPath,
		Retention:  retention,
	}
}

// CreateBackup writes a gzipped tarball of srcDir into the backup
// directory and returns the tarball filename
func (m *BackupManager) CreateBackup(srcDir string) (string, error) {
	if err := os.MkdirAll(m.BackupPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	filename := fmt.Sprintf("vault-%s.tar.gz", time.Now().Format("2006-01-02-150405"))
	outPath := filepath.Join(m.BackupPath, filename)

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", srcDir, err)
	}

	if err := m.prune(); err != nil {
		return "", err
	}

	return filename, nil
}

// prune removes the oldest tarballs beyond the retention count
func (m *BackupManager) prune() error {
	if m.Retention <= 0 {
		return nil
	}

	entries, err := os.ReadDir(m.BackupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	var tarballs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "vault-") && strings.HasSuffix(e.Name(), ".tar.gz") {
			tarballs = append(tarballs, e.Name())
		}
	}

	if len(tarballs) <= m.Retention {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(tarballs)
	for _, name := range tarballs[:len(tarballs)-m.Retention] {
		if err := os.Remove(filepath.Join(m.BackupPath, name)); err != nil {
			return fmt.Errorf("failed to prune old backup: %w", err)
		}
	}

	return nil
}

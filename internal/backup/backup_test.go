package backup

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewBackupManager(t *testing.T) {
	manager := NewBackupManager("/tmp/backups", 10)
	if manager == nil {
		t.Fatal("NewBackupManager returned nil")
	}
	if manager.BackupPath != "/tmp/backups" {
		t.Errorf("expected /tmp/backups, got %s", manager.BackupPath)
	}
}

func TestCreateBackup(t *testing.T) {
	srcDir := t.TempDir()
	backupDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(srcDir, "alice", "docs"), 0755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "alice", "docs", "f.txt"), []byte("payload"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	manager := NewBackupManager(backupDir, 0)
	filename, err := manager.CreateBackup(srcDir)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if !strings.HasPrefix(filename, "vault-") || !strings.HasSuffix(filename, ".tar.gz") {
		t.Errorf("unexpected backup filename: %s", filename)
	}

	// The tarball should contain the file with its contents
	f, err := os.Open(filepath.Join(backupDir, filename))
	if err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("backup is not gzipped: %v", err)
	}

	tr := tar.NewReader(gz)
	found := false
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read tarball: %v", err)
		}
		if header.Name == "alice/docs/f.txt" {
			data, err := io.ReadAll(tr)
			if err != nil {
				t.Fatalf("failed to read entry: %v", err)
			}
			if string(data) != "payload" {
				t.Errorf("unexpected entry contents: %q", data)
			}
			found = true
		}
	}

	if !found {
		t.Error("alice/docs/f.txt missing from backup")
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	srcDir := t.TempDir()
	backupDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(srcDir, "f.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	// Pre-seed old tarballs so prune has something to remove
	for _, name := range []string{
		"vault-2020-01-01-000000.tar.gz",
		"vault-2021-01-01-000000.tar.gz",
	} {
		if err := os.WriteFile(filepath.Join(backupDir, name), []byte("old"), 0644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	manager := NewBackupManager(backupDir, 2)
	if _, err := manager.CreateBackup(srcDir); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		t.Fatalf("failed to read backup dir: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 backups after prune, got %d", len(entries))
	}

	// The oldest one should be gone
	for _, e := range entries {
		if e.Name() == "vault-2020-01-01-000000.tar.gz" {
			t.Error("oldest backup should have been pruned")
		}
	}
}

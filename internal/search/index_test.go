package search

import (
	"testing"

	"github.com/thatcatcamp/catbox/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.UploadRecord{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	if err := InitFTSIndex(db); err != nil {
		t.Skipf("Skipping test: FTS5 not available in test environment: %v", err)
	}

	return db
}

func indexedUpload(t *testing.T, db *gorm.DB, userID uint, path string) models.UploadRecord {
	rec := models.UploadRecord{UserID: userID, Path: path, Size: 10, MimeType: "text/plain"}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("Failed to create upload record: %v", err)
	}
	if err := IndexUpload(db, &rec); err != nil {
		t.Fatalf("Failed to index upload: %v", err)
	}
	return rec
}

func TestSearchFindsByPathComponent(t *testing.T) {
	db := setupTestDB(t)

	indexedUpload(t, db, 1, "docs/quarterly-report.pdf")
	indexedUpload(t, db, 1, "photos/cat.jpg")

	results, err := Search(db, 1, "report")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	if results[0].Path != "docs/quarterly-report.pdf" {
		t.Errorf("Unexpected result path: %s", results[0].Path)
	}
}

func TestSearchIsScopedToUser(t *testing.T) {
	db := setupTestDB(t)

	indexedUpload(t, db, 1, "shared-name.txt")
	indexedUpload(t, db, 2, "shared-name.txt")

	results, err := Search(db, 1, "shared")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 1 {
		t.Errorf("Expected results for user 1 only, got %d", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	db := setupTestDB(t)

	indexedUpload(t, db, 1, "anything.txt")

	results, err := Search(db, 1, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("Expected no results for empty query, got %d", len(results))
	}
}

func TestRemoveUploadFromIndex(t *testing.T) {
	db := setupTestDB(t)

	rec := indexedUpload(t, db, 1, "doomed.txt")

	if err := RemoveUploadFromIndex(db, rec.ID); err != nil {
		t.Fatalf("RemoveUploadFromIndex failed: %v", err)
	}

	results, err := Search(db, 1, "doomed")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("Expected no results after removal, got %d", len(results))
	}
}

func TestIndexUploadReplacesOldEntry(t *testing.T) {
	db := setupTestDB(t)

	rec := indexedUpload(t, db, 1, "before.txt")

	rec.Path = "after.txt"
	if err := db.Save(&rec).Error; err != nil {
		t.Fatalf("Failed to update record: %v", err)
	}
	if err := IndexUpload(db, &rec); err != nil {
		t.Fatalf("Re-index failed: %v", err)
	}

	if results, _ := Search(db, 1, "before"); len(results) != 0 {
		t.Error("Old path should no longer match")
	}

	results, err := Search(db, 1, "after")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result for new path, got %d", len(results))
	}
}

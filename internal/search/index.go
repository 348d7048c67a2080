// SPDX-License-Identifier: MIT
package search

import (
	"fmt"

	"github.com/thatcatcamp/catbox/internal/models"
	"gorm.io/gorm"
)

// InitFTSIndex creates the FTS5 virtual table for filename search
func InitFTSIndex(db *gorm.DB) error {
	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Create FTS5 virtual table. The default unicode61 tokenizer splits
	// on '/' and '.', so path components and extensions are searchable
	// individually.
	_, err = sqlDB.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS files_fts USING fts5(
			upload_id UNINDEXED,
			user_id UNINDEXED,
			path
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create FTS index: %w", err)
	}

	return nil
}

// IndexUpload adds or updates an upload record in the FTS index
func IndexUpload(db *gorm.DB, rec *models.UploadRecord) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Delete existing entry if any
	_, err = sqlDB.Exec(`DELETE FROM files_fts WHERE upload_id = ?`, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to delete old index entry: %w", err)
	}

	// Insert new entry
	_, err = sqlDB.Exec(`
		INSERT INTO files_fts (upload_id, user_id, path)
		VALUES (?, ?, ?)
	`, rec.ID, rec.UserID, rec.Path)
	if err != nil {
		return fmt.Errorf("failed to insert index entry: %w", err)
	}

	return nil
}

// RemoveUploadFromIndex removes an upload record from the FTS index
func RemoveUploadFromIndex(db *gorm.DB, uploadID uint) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	_, err = sqlDB.Exec(`DELETE FROM files_fts WHERE upload_id = ?`, uploadID)
	if err != nil {
		return fmt.Errorf("failed to remove from index: %w", err)
	}

	return nil
}

// SearchResult represents a single search result
type SearchResult struct {
	UploadID uint    `json:"upload_id"`
	Path     string  `json:"path"`
	Size     int64   `json:"size"`
	MimeType string  `json:"mime_type"`
	Rank     float64 `json:"rank"`
}

// Search performs a full-text search over one user's uploaded paths
func Search(db *gorm.DB, userID uint, query string) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	rows, err := sqlDB.Query(`
		SELECT
			fts.upload_id,
			u.path,
			u.size,
			u.mime_type,
			rank
		FROM files_fts fts
		INNER JOIN upload_records u ON fts.upload_id = u.id
		WHERE files_fts MATCH ? AND fts.user_id = ?
		ORDER BY rank
		LIMIT 50
	`, query, userID)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var result SearchResult
		if err := rows.Scan(&result.UploadID, &result.Path, &result.Size, &result.MimeType, &result.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

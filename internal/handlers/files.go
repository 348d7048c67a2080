// SPDX-License-Identifier: MIT
package handlers

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thatcatcamp/catbox/internal/auth"
	"github.com/thatcatcamp/catbox/internal/config"
	"github.com/thatcatcamp/catbox/internal/db"
	"github.com/thatcatcamp/catbox/internal/models"
	"github.com/thatcatcamp/catbox/internal/search"
	"github.com/thatcatcamp/catbox/internal/vault"
)

// requestedPath extracts the wildcard path parameter (strip leading slash)
func requestedPath(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("filepath"), "/")
}

// writeVaultError maps vault errors onto HTTP responses. Client errors get
// a generic message; anything else is logged server-side and reported as a
// plain 500 so internal detail never reaches the response body.
func writeVaultError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, vault.ErrInvalidPath):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden path"})
	case errors.Is(err, vault.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
	default:
		log.Printf("vault error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// GetFileHandler streams a file from the authenticated user's subtree
func GetFileHandler(v *vault.Vault) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		f, info, err := v.Open(user.Username, requestedPath(c))
		if err != nil {
			writeVaultError(c, err)
			return
		}
		defer f.Close()

		ctype := vault.ContentType(f, info.Name())
		if ctype == "" {
			ctype = "application/octet-stream"
		}

		// Streams in chunks; Content-Length comes from the stat size
		c.DataFromReader(http.StatusOK, info.Size(), ctype, f, nil)
	}
}

// UploadFileHandler stores the raw request body at the given path inside
// the authenticated user's subtree
func UploadFileHandler(v *vault.Vault) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		requested := requestedPath(c)

		maxBytes := config.GetInt64("storage.max_upload_bytes")
		body := c.Request.Body
		if maxBytes > 0 {
			body = http.MaxBytesReader(c.Writer, body, maxBytes)
		}

		written, err := v.Save(user.Username, requested, body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
				return
			}
			writeVaultError(c, err)
			return
		}

		relPath := path.Clean(requested)

		// Audit record for tracking and search. Ignore errors - not critical
		rec := models.UploadRecord{
			UserID:   user.ID,
			Path:     relPath,
			Size:     written,
			MimeType: mime.TypeByExtension(filepath.Ext(relPath)),
		}
		if err := db.GetDB().Create(&rec).Error; err == nil {
			_ = search.IndexUpload(db.GetDB(), &rec)
		}

		c.JSON(http.StatusOK, gin.H{
			"path": relPath,
			"size": written,
		})
	}
}

// DeleteFileHandler removes a file or empty directory from the
// authenticated user's subtree
func DeleteFileHandler(v *vault.Vault) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		requested := requestedPath(c)

		if err := v.Remove(user.Username, requested); err != nil {
			writeVaultError(c, err)
			return
		}

		// Drop matching audit rows and their search entries
		var recs []models.UploadRecord
		relPath := path.Clean(requested)
		if err := db.GetDB().Where("user_id = ? AND path = ?", user.ID, relPath).Find(&recs).Error; err == nil {
			for _, rec := range recs {
				_ = search.RemoveUploadFromIndex(db.GetDB(), rec.ID)
			}
			db.GetDB().Where("user_id = ? AND path = ?", user.ID, relPath).Delete(&models.UploadRecord{})
		}

		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// ListHandler returns a JSON listing of a directory in the authenticated
// user's subtree. The subtree root itself lists as the empty path.
func ListHandler(v *vault.Vault) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		entries, err := v.List(user.Username, requestedPath(c))
		if err != nil {
			writeVaultError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// MkdirHandler creates a directory in the authenticated user's subtree
func MkdirHandler(v *vault.Vault) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := v.Mkdir(user.Username, requestedPath(c)); err != nil {
			writeVaultError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "created"})
	}
}

// SearchHandler performs a full-text search over the user's uploaded paths
func SearchHandler(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	results, err := search.Search(db.GetDB(), user.ID, c.Query("q"))
	if err != nil {
		// FTS rejects malformed match expressions
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search query"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

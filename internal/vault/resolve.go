// Package vault confines every filesystem operation to a per-user subtree
// of the storage root. Resolve is the only way a request path becomes a
// filesystem path; everything else in the package builds on it.
package vault

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve turns an untrusted request path into an absolute path under
// root/identity. It is purely lexical: no filesystem access, no symlink
// resolution. Traversal is checked on the normalized segment sequence, so
// "a/../b" is fine while "a/../../b" is rejected the moment the walk would
// step above the user's subtree. Rejections return ErrInvalidPath and never
// clamp or truncate the input.
func Resolve(root, identity, requested string) (string, error) {
	if identity == "" {
		return "", fmt.Errorf("%w: empty identity", ErrInvalidPath)
	}

	// NUL bytes and backslashes have no business in a request path.
	// Windows-style separators are rejected rather than translated.
	if strings.ContainsRune(requested, 0) || strings.ContainsRune(requested, '\\') {
		return "", fmt.Errorf("%w: forbidden character", ErrInvalidPath)
	}

	// An absolute marker would be reinterpreted below, reject it outright
	if strings.HasPrefix(requested, "/") {
		return "", fmt.Errorf("%w: absolute path", ErrInvalidPath)
	}

	segments := make([]string, 0, strings.Count(requested, "/")+1)
	for _, seg := range strings.Split(requested, "/") {
		switch seg {
		case "", ".":
			// redundant separator or no-op segment
		case "..":
			if len(segments) == 0 {
				// would step above the per-user root
				return "", fmt.Errorf("%w: traversal outside storage", ErrInvalidPath)
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	parts := append([]string{root, identity}, segments...)
	return filepath.Join(parts...), nil
}

// UserRoot returns the subtree root for an identity. Listing handlers use
// it when the request path is empty, which Resolve itself rejects.
func UserRoot(root, identity string) string {
	return filepath.Join(root, identity)
}

package vault

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Vault is a storage root holding one directory per user
type Vault struct {
	root string
}

// New creates a vault rooted at dir, creating it if missing
func New(dir string) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute storage root directory
func (v *Vault) Root() string {
	return v.root
}

// Entry describes one name in a directory listing
type Entry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	IsDir   bool      `json:"is_dir"`
	ModTime time.Time `json:"mod_time"`
}

// Open resolves requested inside identity's subtree and opens it for
// streaming. The returned file is positioned at the start and must be
// closed by the caller on every path. Directories and missing files both
// come back as ErrNotFound so responses don't reveal which of the two it
// was.
//
// Resolve is lexical only, so a symlink inside the subtree could still
// point outside it. Open closes that hole: after opening, the path is
// canonicalized and re-checked against the canonical subtree root, and an
// escape is reported as ErrInvalidPath.
func (v *Vault) Open(identity, requested string) (*os.File, os.FileInfo, error) {
	path, err := Resolve(v.root, identity, requested)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, requested)
		}
		return nil, nil, fmt.Errorf("open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat file: %w", err)
	}

	if info.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, requested)
	}

	if err := v.verifyConfined(identity, path); err != nil {
		f.Close()
		return nil, nil, err
	}

	return f, info, nil
}

// verifyConfined canonicalizes path and checks it still sits inside
// identity's subtree once symlinks are resolved
func (v *Vault) verifyConfined(identity, path string) error {
	userRoot, err := filepath.EvalSymlinks(UserRoot(v.root, identity))
	if err != nil {
		return fmt.Errorf("canonicalize user root: %w", err)
	}

	canon, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("canonicalize path: %w", err)
	}

	if canon != userRoot && !strings.HasPrefix(canon, userRoot+string(filepath.Separator)) {
		return fmt.Errorf("%w: symlink escapes storage", ErrInvalidPath)
	}

	return nil
}

// ContentType guesses a MIME type for an open file, extension first and
// content sniffing as fallback. The file is rewound before returning.
// Empty string means no guess; the caller omits the header.
func ContentType(f *os.File, name string) string {
	if ctype := mime.TypeByExtension(filepath.Ext(name)); ctype != "" {
		return ctype
	}

	mtype, err := mimetype.DetectReader(f)
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
		return ""
	}
	if err != nil {
		return ""
	}
	return mtype.String()
}

// Save writes r to requested inside identity's subtree, creating parent
// directories as needed. Returns the number of bytes written.
//
// The data goes to a temp file in the destination directory first and is
// renamed into place only after the full copy succeeds, so a failed or
// oversized upload never leaves a truncated file behind and never clobbers
// an existing one.
func (v *Vault) Save(identity, requested string, r io.Reader) (int64, error) {
	path, err := Resolve(v.root, identity, requested)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create parent directory: %w", err)
	}
	if err := v.verifyConfined(identity, dir); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return written, fmt.Errorf("write file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return written, fmt.Errorf("write file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return written, fmt.Errorf("write file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return written, fmt.Errorf("write file: %w", err)
	}

	return written, nil
}

// List returns the entries of a directory inside identity's subtree.
// An empty requested path lists the subtree root.
func (v *Vault) List(identity, requested string) ([]Entry, error) {
	var path string
	if strings.Trim(requested, "/") == "" {
		path = UserRoot(v.root, identity)
	} else {
		var err error
		path, err = Resolve(v.root, identity, requested)
		if err != nil {
			return nil, err
		}
	}

	dirents, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, requested)
		}
		return nil, fmt.Errorf("read directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		info, err := d.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:    d.Name(),
			Size:    info.Size(),
			IsDir:   d.IsDir(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// Mkdir creates a directory (and any parents) inside identity's subtree
func (v *Vault) Mkdir(identity, requested string) error {
	path, err := Resolve(v.root, identity, requested)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	return v.verifyConfined(identity, path)
}

// Remove deletes a file or empty directory inside identity's subtree
func (v *Vault) Remove(identity, requested string) error {
	path, err := Resolve(v.root, identity, requested)
	if err != nil {
		return err
	}

	// A symlinked parent would redirect the delete outside the subtree
	canonDir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, requested)
		}
		return fmt.Errorf("canonicalize path: %w", err)
	}
	if err := v.verifyConfined(identity, canonDir); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(canonDir, filepath.Base(path))); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, requested)
		}
		return fmt.Errorf("remove: %w", err)
	}

	return nil
}

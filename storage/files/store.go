// Package files manages the upload root on the local filesystem.
package files

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// PYQPDir is the subdirectory of the upload root holding question papers.
const PYQPDir = "pyqp"

// ErrInvalidPath is returned for any requested path that could escape the
// upload root.
var ErrInvalidPath = errors.New("invalid file path")

// CheckRelativePath rejects a parent-directory segment or an absolute-path
// marker anywhere in the requested path. It must pass before any filesystem
// call is made with the path.
func CheckRelativePath(p string) error {
	if p == "" || strings.Contains(p, "..") || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return ErrInvalidPath
	}
	return nil
}

// Store saves and resolves files under a fixed upload root.
type Store struct {
	root string
}

// NewStore bootstraps the upload root and its pyqp/ subdirectory.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, PYQPDir), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload root")
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// Resolve maps a relative path onto the upload root, rejecting traversal
// attempts before touching the filesystem.
func (s *Store) Resolve(rel string) (string, error) {
	if err := CheckRelativePath(rel); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

// Save writes src to rel under the upload root and reports the byte size.
func (s *Store) Save(rel string, src io.Reader) (int64, error) {
	full, err := s.Resolve(rel)
	if err != nil {
		return 0, err
	}

	dst, err := os.Create(full)
	if err != nil {
		return 0, errors.Wrap(err, "creating upload file")
	}
	defer func() { _ = dst.Close() }()

	size, err := io.Copy(dst, src)
	if err != nil {
		return 0, errors.Wrap(err, "writing upload file")
	}
	return size, nil
}

// Exists reports whether rel resolves to an existing regular file.
func (s *Store) Exists(rel string) bool {
	full, err := s.Resolve(rel)
	if err != nil {
		return false
	}
	fi, err := os.Stat(full)
	return err == nil && fi.Mode().IsRegular()
}

// IsDir reports whether rel resolves to an existing directory.
func (s *Store) IsDir(rel string) bool {
	full, err := s.Resolve(rel)
	if err != nil {
		return false
	}
	fi, err := os.Stat(full)
	return err == nil && fi.IsDir()
}

package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRelativePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain file", "pyqp/20230412_101501_123456_algebra.pdf", false},
		{"nested ok", "pyqp/sub/file.pdf", false},
		{"empty", "", true},
		{"parent segment", "pyqp/../secrets.txt", true},
		{"leading parent", "../etc/passwd", true},
		{"bare parent", "..", true},
		{"absolute", "/etc/passwd", true},
		{"windows absolute", `\windows\system32`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRelativePath(tt.path)
			if tt.wantErr {
				assert.Equal(t, ErrInvalidPath, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStoreResolveRejectsTraversalBeforeFS(t *testing.T) {
	// a root that does not exist on disk: rejection must happen without any
	// filesystem access, so no error other than ErrInvalidPath can surface
	s := &Store{root: filepath.Join(os.TempDir(), "does-not-exist-shule")}

	_, err := s.Resolve("../outside.pdf")
	assert.Equal(t, ErrInvalidPath, err)

	_, err = s.Resolve("/absolute.pdf")
	assert.Equal(t, ErrInvalidPath, err)
}

func TestStoreSaveAndExists(t *testing.T) {
	root := t.TempDir()
	s, err := NewStore(root)
	require.NoError(t, err)

	// pyqp/ bootstrap
	fi, err := os.Stat(filepath.Join(root, PYQPDir))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	content := "%PDF-1.4 fake"
	size, err := s.Save("pyqp/test.pdf", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	assert.True(t, s.Exists("pyqp/test.pdf"))
	assert.False(t, s.Exists("pyqp/missing.pdf"))
	assert.False(t, s.Exists(PYQPDir)) // directory, not a regular file
}

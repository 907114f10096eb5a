package paper

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrFileTypeNotAllowed is returned for uploads whose filename extension is
// not in the allow-list. Only the extension is checked; file content is never
// inspected.
var ErrFileTypeNotAllowed = errors.New("invalid file type; only PDF files are allowed")

var allowedExtensions = map[string]struct{}{
	".pdf": {},
}

var (
	unsafeRunes    = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// ValidateFilename accepts only filenames whose final extension
// (case-insensitive) is in the allow-list. A name without an extension is
// rejected.
func ValidateFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ErrFileTypeNotAllowed
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrFileTypeNotAllowed
	}
	return nil
}

// SanitizeFilename strips path separators and unsafe characters from an
// uploaded filename, leaving a name safe to join under the upload root.
func SanitizeFilename(name string) string {
	// drop any client-supplied directory part, whichever separator style
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = whitespaceRuns.ReplaceAllString(name, "_")
	name = unsafeRunes.ReplaceAllString(name, "")
	name = strings.Trim(name, "._-")
	return name
}

// UniqueName prefixes a sanitized filename with a sortable high-resolution
// timestamp, making collisions practically impossible without a database
// round-trip.
func UniqueName(safeName string, now time.Time) string {
	micros := now.Nanosecond() / int(time.Microsecond)
	return fmt.Sprintf("%s_%06d_%s", now.Format("20060102_150405"), micros, safeName)
}

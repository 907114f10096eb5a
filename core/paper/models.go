package paper

import (
	"time"

	"github.com/trezcool/shule/core"
)

// KnownSubjects is the set offered by the upload form; anything else arrives
// as a custom subject.
var KnownSubjects = []string{
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"English",
	"Social Studies",
	"Computer Science",
}

// Subject is a tagged choice: a subject from the known set, or an explicit
// custom name supplied by the uploader. It replaces the old free-text field
// with its "Other" sentinel convention.
type Subject struct {
	name   string
	custom bool
}

func KnownSubject(name string) Subject  { return Subject{name: name} }
func CustomSubject(name string) Subject { return Subject{name: core.CleanString(name), custom: true} }

func (s Subject) IsCustom() bool { return s.custom }

// Value resolves the subject label to persist.
func (s Subject) Value() string { return s.name }

// Paper is one uploaded previous-year question paper and its catalog metadata.
type Paper struct {
	ID          string
	Subject     string
	Year        int
	Filename    string    // sanitized original filename
	FilePath    string    // relative to the upload root, eg. pyqp/20230412_101501_123456_algebra.pdf
	Description string
	UploadedBy  string    // owning account ID
	UploadedAt  time.Time // UTC
	IsActive    bool
	FileSize    int64
}

// NewPaper contains information needed to catalog a new upload. The file
// itself has already been written to the upload root by then.
type NewPaper struct {
	Subject     Subject
	Year        int    `form:"year" validate:"required,paperyear"`
	Filename    string `validate:"required"`
	FilePath    string `validate:"required"`
	Description string `form:"description"`
	UploadedBy  string `validate:"required"`
	FileSize    int64
}

func (np *NewPaper) Validate() error {
	np.Description = core.CleanString(np.Description)
	if np.Subject.Value() == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "subject", Error: "this field is required"})
	}
	return core.Validate.Struct(np)
}

// Filter narrows paper queries; zero values are ignored.
type Filter struct {
	UploadedBy string
	IsActive   *bool
	Limit      int
	Ordering   []core.DBOrdering
}

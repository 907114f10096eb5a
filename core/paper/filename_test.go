package paper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		fname   string
		wantErr bool
	}{
		{"pdf", "report.pdf", false},
		{"uppercase extension", "report.PDF", false},
		{"mixed case", "Report.Pdf", false},
		{"docx", "report.docx", true},
		{"no extension", "report", true},
		{"disguised double extension", "report.pdf.exe", true},
		{"empty", "", true},
		{"bare extension", ".pdf", false}, // only the final extension is checked
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.fname)
			if tt.wantErr {
				assert.Equal(t, ErrFileTypeNotAllowed, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "algebra_2023.pdf", "algebra_2023.pdf"},
		{"spaces", "maths paper 2023.pdf", "maths_paper_2023.pdf"},
		{"unix path stripped", "../../etc/passwd.pdf", "passwd.pdf"},
		{"windows path stripped", `C:\Users\x\paper.pdf`, "paper.pdf"},
		{"unsafe runes dropped", "phys!cs@2022#.pdf", "physcs2022.pdf"},
		{"leading dots trimmed", "...paper.pdf", "paper.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestUniqueName(t *testing.T) {
	now := time.Date(2023, 4, 12, 10, 15, 1, 123456789, time.UTC)

	got := UniqueName("algebra.pdf", now)
	assert.Equal(t, "20230412_101501_123456_algebra.pdf", got)
	assert.True(t, strings.HasSuffix(got, "_algebra.pdf"))

	// a later instant in the same second still yields a distinct name
	other := UniqueName("algebra.pdf", now.Add(time.Microsecond))
	assert.NotEqual(t, got, other)
}

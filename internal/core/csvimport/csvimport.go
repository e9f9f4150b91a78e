// Package csvimport holds the pieces shared by the CSV importers: upload checks,
// header indexing and the per-row error report.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
)

const FileField = "file"

var (
	ErrNoFile          = internal.NewValidationError("No file", internal.ErrCodeInvalidFile)
	ErrBlankFilename   = internal.NewValidationError("Filename cannot be blank", internal.ErrCodeInvalidFile)
	ErrInvalidFileType = internal.NewValidationError("Invalid file type", internal.ErrCodeInvalidFile)
)

// OpenUpload pulls the multipart "file" part out of the request and checks its name.
// The caller closes the returned file.
func OpenUpload(r *http.Request, allowedExtensions []string) (multipart.File, string, *internal.AppError) {
	file, header, err := r.FormFile(FileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, "", ErrNoFile
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", internal.NewValidationError("File is too large", internal.ErrCodeInvalidFile)
		}
		return nil, "", ErrNoFile.WithCause(err)
	}

	if appErr := CheckFilename(header.Filename, allowedExtensions); appErr != nil {
		file.Close()
		return nil, "", appErr
	}
	return file, header.Filename, nil
}

func CheckFilename(name string, allowedExtensions []string) *internal.AppError {
	if strings.TrimSpace(name) == "" {
		return ErrBlankFilename
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return ErrInvalidFileType
	}
	for _, allowed := range allowedExtensions {
		if ext == strings.ToLower(strings.TrimPrefix(allowed, ".")) {
			return nil
		}
	}
	return ErrInvalidFileType
}

// NewReader returns a csv reader that tolerates ragged rows; importers check
// field counts themselves.
func NewReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// Line returns the physical line the record just read by cr starts on, counting the
// header as line 1. readErr is the error from that Read; Line is 0 when it carries no
// position.
func Line(cr *csv.Reader, readErr error) int {
	var pe *csv.ParseError
	if errors.As(readErr, &pe) {
		return pe.StartLine
	}
	if readErr != nil {
		return 0
	}
	line, _ := cr.FieldPos(0)
	return line
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
}

// IndexHeader maps each required column to its position. Matching ignores case and
// surrounding space, and extra columns are allowed.
func IndexHeader(header []string, required ...string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := normalize(name)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		pos, ok := positions[normalize(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// Field returns the trimmed value of col in rec, or "" when the row is short.
func Field(rec []string, index map[string]int, col string) string {
	pos, ok := index[col]
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

// Blank reports whether every field of rec is empty.
func Blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

type RowError struct {
	Row     int    `json:"row"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// Report collects row errors for one import.
type Report struct {
	errs []RowError
}

func (r *Report) Add(row int, kind, format string, args ...interface{}) {
	r.errs = append(r.errs, RowError{Row: row, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) Len() int {
	return len(r.errs)
}

// Details renders at most limit errors as "Row N: message" lines.
func (r *Report) Details(limit int) []string {
	n := len(r.errs)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]string, 0, n)
	for _, e := range r.errs[:n] {
		out = append(out, e.String())
	}
	return out
}

// Summary counts errors per kind.
func (r *Report) Summary() map[string]int {
	out := make(map[string]int)
	for _, e := range r.errs {
		out[e.Kind]++
	}
	return out
}

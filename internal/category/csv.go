package category

import (
	"errors"
	"fmt"
	"io"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/csvimport"
)

const (
	ColCategory = "categories"
	ColGroup    = "categories_group"
	ColType     = "categories_type"
)

// Row is one parsed line of a categories file. Line is the physical line in the
// file, with the header on line 1.
type Row struct {
	Line  int
	Name  string
	Group string
	Type  string
}

// ParseCSV reads a categories export. Structural problems (unreadable file, missing
// columns) fail the whole file; incomplete rows are reported and left out.
func ParseCSV(r io.Reader) ([]Row, *csvimport.Report, error) {
	cr := csvimport.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, internal.NewValidationError("CSV file is empty", internal.ErrCodeInvalidCSV)
		}
		return nil, nil, internal.NewValidationError("Could not read CSV file", internal.ErrCodeInvalidCSV).WithCause(err)
	}

	index, err := csvimport.IndexHeader(header, ColCategory, ColGroup, ColType)
	if err != nil {
		return nil, nil, internal.NewValidationError(fmt.Sprintf("Invalid CSV header: %s", err), internal.ErrCodeInvalidCSV)
	}

	report := &csvimport.Report{}
	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line := csvimport.Line(cr, err)
		if err != nil {
			return nil, nil, internal.NewValidationError(fmt.Sprintf("Could not read CSV row %d", line), internal.ErrCodeInvalidCSV).WithCause(err)
		}

		if csvimport.Blank(rec) {
			report.Add(line, "blank_row", "Empty row")
			continue
		}

		row := Row{
			Line:  line,
			Name:  csvimport.Field(rec, index, ColCategory),
			Group: csvimport.Field(rec, index, ColGroup),
			Type:  csvimport.Field(rec, index, ColType),
		}
		if row.Name == "" || row.Group == "" || row.Type == "" {
			report.Add(line, "missing_value", "categories, categories_group and categories_type are required")
			continue
		}
		rows = append(rows, row)
	}
	return rows, report, nil
}

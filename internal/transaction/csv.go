package transaction

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/csvimport"
	"github.com/shopspring/decimal"
)

const (
	ColExternalID  = "Transaction ID"
	ColCategory    = "Category"
	ColInstitution = "Institution"
	ColAccount     = "Account"
	ColDate        = "Date"
	ColAmount      = "Amount"
	ColDescription = "Description"
)

// Columns is the header every transactions export must carry.
var Columns = []string{ColExternalID, ColCategory, ColInstitution, ColAccount, ColDate, ColAmount, ColDescription}

// row error kinds reported in error_summary
const (
	KindMissingCategory = "missing_category"
	KindMissingValue    = "missing_value"
	KindInvalidDate     = "invalid_date"
	KindInvalidAmount   = "invalid_amount"
)

var dateLayouts = []string{"01/02/2006", "1/2/2006", "2006-01-02"}

// ParseDate accepts MM/DD/YYYY, M/D/YYYY and YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// ParseAmount reads a bank-formatted amount such as "$1,234.56" or "$-50.00".
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, errors.New("amount is empty")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// Row is one raw line of a transactions export. Line is the physical line in the
// file, with the header on line 1.
type Row struct {
	Line        int
	ExternalID  string
	Category    string
	Institution string
	Account     string
	Date        string
	Amount      string
	Description string
}

// ParseCSV reads the whole export. Every record must have as many fields as the
// header; a ragged record or a missing column rejects the file.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csvimport.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, internal.NewValidationError("CSV file is empty", internal.ErrCodeInvalidCSV)
		}
		return nil, internal.NewValidationError("Could not read CSV file", internal.ErrCodeInvalidCSV).WithCause(err)
	}
	cr.FieldsPerRecord = len(header)

	index, err := csvimport.IndexHeader(header, Columns...)
	if err != nil {
		return nil, internal.NewValidationError(fmt.Sprintf("Invalid CSV header: %s", err), internal.ErrCodeInvalidCSV)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line := csvimport.Line(cr, err)
		if err != nil {
			return nil, internal.NewValidationError(fmt.Sprintf("Invalid CSV at row %d", line), internal.ErrCodeInvalidCSV).WithCause(err)
		}
		if csvimport.Blank(rec) {
			continue
		}

		rows = append(rows, Row{
			Line:        line,
			ExternalID:  csvimport.Field(rec, index, ColExternalID),
			Category:    csvimport.Field(rec, index, ColCategory),
			Institution: csvimport.Field(rec, index, ColInstitution),
			Account:     csvimport.Field(rec, index, ColAccount),
			Date:        csvimport.Field(rec, index, ColDate),
			Amount:      csvimport.Field(rec, index, ColAmount),
			Description: csvimport.Field(rec, index, ColDescription),
		})
	}
	return rows, nil
}

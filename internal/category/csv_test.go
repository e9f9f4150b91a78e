package category_test

import (
	"strings"
	"testing"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	data := "Categories_Type,categories,categories_group\n" +
		"Expense,Groceries,Food\n" +
		",,\n" +
		"Expense,,Food\n" +
		"Income, Paycheck , Salary\n"

	rows, report, err := category.ParseCSV(strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, category.Row{Line: 2, Name: "Groceries", Group: "Food", Type: "Expense"}, rows[0])
	assert.Equal(t, category.Row{Line: 5, Name: "Paycheck", Group: "Salary", Type: "Income"}, rows[1])

	assert.Equal(t, 2, report.Len())
	assert.Equal(t, map[string]int{"blank_row": 1, "missing_value": 1}, report.Summary())
}

func TestParseCSV_ShortRow(t *testing.T) {
	rows, report, err := category.ParseCSV(strings.NewReader("categories,categories_group,categories_type\nRent,Housing\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, []string{"Row 2: categories, categories_group and categories_type are required"}, report.Details(0))
}

func TestParseCSV_FileErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{name: "empty file", data: "", message: "CSV file is empty"},
		{name: "missing column", data: "categories,categories_group\nRent,Housing\n", message: "Invalid CSV header: missing required columns: categories_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := category.ParseCSV(strings.NewReader(tt.data))
			require.Error(t, err)

			appErr, ok := internal.IsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, 400, appErr.StatusCode)
		})
	}
}

func TestParseCSV_LineNumbersFollowTheFile(t *testing.T) {
	data := "categories,categories_group,categories_type\n" +
		"Groceries,Food,Expense\n" +
		"\n" +
		"\n" +
		"Rent,,Expense\n"

	rows, report, err := category.ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, []string{"Row 5: categories, categories_group and categories_type are required"}, report.Details(0))
}

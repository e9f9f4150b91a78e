package transport

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       Page
		wantOffset int
	}{
		{name: "defaults", query: "", want: Page{Page: 1, PerPage: DefaultPerPage}, wantOffset: 0},
		{name: "explicit", query: "page=3&per_page=20", want: Page{Page: 3, PerPage: 20}, wantOffset: 40},
		{name: "bad values fall back", query: "page=-2&per_page=abc", want: Page{Page: 1, PerPage: DefaultPerPage}, wantOffset: 0},
		{name: "per_page capped", query: "per_page=10000", want: Page{Page: 1, PerPage: MaxPerPage}, wantOffset: 0},
		{
			name:       "huge page capped",
			query:      "page=9223372036854775807&per_page=500",
			want:       Page{Page: MaxPage, PerPage: MaxPerPage},
			wantOffset: (MaxPage - 1) * MaxPerPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePage(httptest.NewRequest("GET", "/transaction?"+tt.query, nil))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestPageOffsetClampsUnparsedValues(t *testing.T) {
	assert.Equal(t, 0, Page{Page: 0, PerPage: 10}.Offset())
	assert.Equal(t, (MaxPage-1)*MaxPerPage, Page{Page: math.MaxInt, PerPage: math.MaxInt}.Offset())
	assert.GreaterOrEqual(t, Page{Page: math.MaxInt, PerPage: math.MaxInt}.Offset(), 0)
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timmy/brunca/internal/domain"
)

func TestDecodePage_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIDs   []string
		wantMeta  domain.PageMeta
		wantError bool
	}{
		{
			name:     "top-level snake case",
			body:     `{"data":[{"id":1,"title":"a"},{"id":"2","title":"b"}],"current_page":1,"total_pages":3}`,
			wantIDs:  []string{"1", "2"},
			wantMeta: domain.PageMeta{CurrentPage: 1, TotalPages: 3},
		},
		{
			name:     "nested meta with camel case",
			body:     `{"items":[{"id":"x"}],"meta":{"currentPage":2,"totalPages":2}}`,
			wantIDs:  []string{"x"},
			wantMeta: domain.PageMeta{CurrentPage: 2, TotalPages: 2},
		},
		{
			name:     "pagination block with last_page and string numbers",
			body:     `{"results":[{"id":9}],"pagination":{"current_page":"3","last_page":"5"}}`,
			wantIDs:  []string{"9"},
			wantMeta: domain.PageMeta{CurrentPage: 3, TotalPages: 5},
		},
		{
			name:     "page object",
			body:     `{"data":[{"id":4}],"page":{"current_page":1,"total_pages":1}}`,
			wantIDs:  []string{"4"},
			wantMeta: domain.PageMeta{CurrentPage: 1, TotalPages: 1},
		},
		{
			name:     "empty list without metadata",
			body:     `{"data":[]}`,
			wantIDs:  []string{},
			wantMeta: domain.PageMeta{CurrentPage: 1, TotalPages: 1},
		},
		{
			name:     "empty list past the end keeps metadata",
			body:     `{"data":[],"current_page":4,"total_pages":3}`,
			wantIDs:  []string{},
			wantMeta: domain.PageMeta{CurrentPage: 4, TotalPages: 4},
		},
		{
			name:     "empty body",
			body:     ``,
			wantIDs:  []string{},
			wantMeta: domain.PageMeta{CurrentPage: 1, TotalPages: 1},
		},
		{
			name:     "bare empty array",
			body:     `[]`,
			wantIDs:  []string{},
			wantMeta: domain.PageMeta{CurrentPage: 1, TotalPages: 1},
		},
		{name: "missing list", body: `{"current_page":1,"total_pages":1}`, wantError: true},
		{name: "items without metadata", body: `{"data":[{"id":1}]}`, wantError: true},
		{name: "item without id", body: `{"data":[{"title":"x"}],"current_page":1,"total_pages":1}`, wantError: true},
		{name: "zero pages", body: `{"data":[{"id":1}],"current_page":0,"total_pages":0}`, wantError: true},
		{name: "non-object payload", body: `[{"id":1}]`, wantError: true},
		{name: "broken json", body: `{"data":[`, wantError: true},
		{name: "list is not an array", body: `{"data":{"id":1},"current_page":1,"total_pages":1}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodePage[domain.Destination]([]byte(tt.body))
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			ids := make([]string, 0, len(page.Items))
			for _, it := range page.Items {
				ids = append(ids, it.ItemID())
			}
			require.Equal(t, tt.wantIDs, ids)
			require.Equal(t, tt.wantMeta, page.Meta)
		})
	}
}

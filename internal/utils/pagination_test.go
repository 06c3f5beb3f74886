package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func paginationFor(query string) PaginationParams {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/fields?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
		{"page=3&limit=10", PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{"page=0&limit=500", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
		{"page=abc&limit=-1", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
		{"page=9223372036854775807&limit=100", PaginationParams{Page: 1_000_000, Limit: 100, Offset: 99_999_900}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			require.Equal(t, tt.want, paginationFor(tt.query))
		})
	}
}

func TestPaginationParams_Response(t *testing.T) {
	params := NewPaginationParams(2, 50)
	require.Equal(t, 50, params.Offset)
	require.Equal(t, PaginationResponse{Page: 2, Limit: 50, Total: 123}, params.Response(123))
}

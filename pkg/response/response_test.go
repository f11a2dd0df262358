package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessWithPagination(t *testing.T) {
	r := SuccessWithPagination(200, []string{"a"}, 2, 10, 21)
	assert.Equal(t, "success", r.Status)
	assert.Equal(t, &Pagination{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, r.Pagination)

	assert.Equal(t, int64(0), SuccessWithPagination(200, nil, 1, 0, 5).Pagination.TotalPages)
}

func TestError(t *testing.T) {
	r := Error(409, "duplicate invoice")
	assert.Equal(t, Response{Status: "error", StatusCode: 409, Error: "duplicate invoice"}, r)
}

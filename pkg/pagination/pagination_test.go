package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: DefaultLimit}},
		{"page=3&limit=10", Params{Page: 3, Limit: 10}},
		{"page=-1&limit=abc", Params{Page: 1, Limit: DefaultLimit}},
		{"limit=100000", Params{Page: 1, Limit: MaxLimit}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseQuery(tt.query), tt.query)
	}
	assert.Equal(t, 20, Params{Page: 3, Limit: 10}.Offset())
}

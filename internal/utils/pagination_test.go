package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) PaginationParams {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = paramsFor("page=3&limit=10")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 20, p.Offset)

	// Out-of-range values fall back to defaults.
	p = paramsFor("page=0&limit=1000")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)

	p = paramsFor("page=abc&limit=xyz")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}

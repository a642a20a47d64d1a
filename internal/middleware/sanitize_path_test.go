package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSanitizePath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SanitizePath())
	router.GET("/accounts/activate/:uid/:token", func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("uid")+"|"+c.Param("token"))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts/activate/abc%3Cb%3E/%3Ci%3Es0m3-cafe", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc|s0m3-cafe", rec.Body.String())
}

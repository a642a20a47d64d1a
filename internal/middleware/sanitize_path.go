package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var pathPolicy = bluemonday.StrictPolicy()

// SanitizePath strips markup from the request path and from the route parameters handed to the handlers.
func SanitizePath() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.URL.Path = pathPolicy.Sanitize(c.Request.URL.Path)
		for i := range c.Params {
			c.Params[i].Value = pathPolicy.Sanitize(c.Params[i].Value)
		}
		c.Next()
	}
}

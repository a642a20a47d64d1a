package middleware

import (
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-Id"

// InjectTrace attaches a trace id to the request and echoes it in the X-Trace-Id header.
// A well-formed trace id sent by the client is kept, so browser and API logs can be correlated.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetHeader(traceHeader)
		if _, err := uuid.Parse(traceId); err != nil {
			traceId = utils.GenerateTraceId()
		}
		c.Set(utils.TraceIdKey.String(), traceId)
		c.Header(traceHeader, traceId)
		c.Next()
	}
}

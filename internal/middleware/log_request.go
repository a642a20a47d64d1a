package middleware

import (
	"strconv"
	"time"

	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func LogRequest() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		entry := log.WithFields(log.Fields{
			"traceId": ctx.GetString(utils.TraceIdKey.String()),
			"service": utils.ExtractServiceName(),
		})
		utils.LogEntry(entry, "info", "Request received: "+ctx.Request.Method+" "+ctx.Request.URL.Path)

		ctx.Next()

		utils.LogEntry(entry.WithField("duration", time.Since(start).String()), "info",
			"Request completed with status "+strconv.Itoa(ctx.Writer.Status()))
	}
}

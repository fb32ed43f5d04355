package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func LoggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		entry := logrus.WithFields(logrus.Fields{
			"status_code": param.StatusCode,
			"latency":     param.Latency,
			"client_ip":   param.ClientIP,
			"method":      param.Method,
			"path":        param.Path,
			"body_size":   param.BodySize,
			"error":       param.ErrorMessage,
		})
		switch {
		case param.StatusCode >= 500:
			entry.Error("HTTP 요청")
		case param.StatusCode >= 400:
			entry.Warn("HTTP 요청")
		default:
			entry.Info("HTTP 요청")
		}
		return ""
	})
}

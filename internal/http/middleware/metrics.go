package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AASani29/NutriAI-sub001/internal/observability"
)

// Metrics records per-route counts and latency. A nil m is a passthrough.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

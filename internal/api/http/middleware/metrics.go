package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records request counts and latency.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics reports every request to a RequestObserver, labelled by route
// template so ids do not blow up cardinality.
type Metrics struct {
	observer RequestObserver
}

// NewMetrics creates a Metrics middleware reporting to observer.
func NewMetrics(observer RequestObserver) *Metrics {
	return &Metrics{observer: observer}
}

// Handle returns the gin handler.
func (m *Metrics) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.observer.ObserveRequest(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}

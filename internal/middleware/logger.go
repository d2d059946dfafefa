package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID returns the id assigned to the current request by Logger, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger tags every request with an id (echoing a client-supplied
// X-Request-ID when it parses as a UUID) and writes one log line per
// request once the handler chain has finished.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		code := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case code >= 500:
			ev = log.Error()
		case code >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		if c.FullPath() == "/health" && code < 400 {
			return
		}
		if last := c.Errors.Last(); last != nil {
			ev = ev.Err(last.Err)
		}

		ev.Str("request_id", id).
			Str("route", c.FullPath()).
			Str("method", c.Request.Method).
			Str("uri", c.Request.URL.RequestURI()).
			Int("code", code).
			Int("bytes", c.Writer.Size()).
			Str("client", c.ClientIP()).
			Dur("took", time.Since(began)).
			Msg("http request")
	}
}

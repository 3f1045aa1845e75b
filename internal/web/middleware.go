package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mangascout/pkg/logging"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags every request with an id (reusing an incoming
// X-Request-ID) and logs it once it completes.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	base = base.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderRequestID, id)
		ctx := logging.WithRequestID(c.Request.Context(), base, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		log := logging.FromContext(ctx, base)
		ev := log.Info()
		if c.Writer.Status() >= 500 {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

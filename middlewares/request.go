package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
	UserIDKey       = "user_id"
	LoggerKey       = "logger"
)

// RequestID reuses an incoming X-Request-ID or generates one, and echoes it
// on the response.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx.Set(RequestIDKey, requestID)
		ctx.Header(RequestIDHeader, requestID)
		ctx.Next()
	}
}

// RequestLogger attaches a request-scoped logger to the context and writes
// one line per request, leveled by status.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		reqLogger := logger.With().
			Str("request_id", ctx.GetString(RequestIDKey)).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Logger()
		ctx.Set(LoggerKey, &reqLogger)
		ctx.Request = ctx.Request.WithContext(reqLogger.WithContext(ctx.Request.Context()))

		ctx.Next()

		status := ctx.Writer.Status()
		var e *zerolog.Event
		switch {
		case status >= 500:
			e = reqLogger.Error()
			if last := ctx.Errors.Last(); last != nil {
				e = e.Err(last.Err)
			}
		case status >= 400:
			e = reqLogger.Warn()
		default:
			e = reqLogger.Info()
		}
		if userID, ok := ctx.Get(UserIDKey); ok {
			e = e.Interface("user_id", userID)
		}
		e.
			Dur("latency", time.Since(start)).
			Int("status", status).
			Str("route", ctx.FullPath()).
			Str("ip", ctx.ClientIP()).
			Str("user_agent", ctx.Request.UserAgent()).
			Msg("API")
	}
}

// GetLogger returns the request-scoped logger, or a disabled one outside a
// request.
func GetLogger(ctx *gin.Context) *zerolog.Logger {
	if l, ok := ctx.Get(LoggerKey); ok {
		if logger, ok := l.(*zerolog.Logger); ok {
			return logger
		}
	}
	return zerolog.Ctx(ctx.Request.Context())
}

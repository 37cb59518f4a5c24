package handler

import (
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/company-employees-service/pkg/response"
)

const hypermediaKey = "hypermedia"

// ValidateMediaType parses the Accept header before list handlers run.
// An unparseable value is answered with 406. When one of the listed media
// types equals hateoas (case-insensitive) the request is marked as wanting
// hypermedia links. A missing header means plain JSON.
func ValidateMediaType(hateoas string) gin.HandlerFunc {
	hateoas = strings.ToLower(strings.TrimSpace(hateoas))
	return func(c *gin.Context) {
		accept := strings.TrimSpace(c.GetHeader("Accept"))
		if accept == "" {
			c.Set(hypermediaKey, false)
			c.Next()
			return
		}
		wants := false
		for _, part := range strings.Split(accept, ",") {
			mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
				response.WriteError(c, response.ErrNotAcceptable)
				return
			}
			if hateoas != "" && mt == hateoas {
				wants = true
			}
		}
		c.Set(hypermediaKey, wants)
		c.Next()
	}
}

// hypermediaRequested reads the flag ValidateMediaType stored.
func hypermediaRequested(c *gin.Context) bool {
	return c.GetBool(hypermediaKey)
}

// RequestLogger logs one line per request with the app logger.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	l := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request handled")
	}
}

// baseURL is scheme://host of the incoming request.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(fwd, ",")[0]))
	}
	return scheme + "://" + c.Request.Host
}

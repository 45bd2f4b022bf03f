// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/models"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// WriteError maps a domain error onto the HTTP surface. Rate-limit rejections
// carry a Retry-After header rounded up to whole seconds.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	case models.IsNotFound(err):
		ErrorResponse(w, http.StatusNotFound, err.Error())
	case models.IsNotAuthorized(err):
		ErrorResponse(w, http.StatusForbidden, err.Error())
	case models.IsConflict(err):
		ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		if retryAfter, ok := models.IsRateLimited(err); ok {
			secs := int64(retryAfter.Seconds())
			if retryAfter > time.Duration(secs)*time.Second {
				secs++
			}
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
			ErrorResponse(w, http.StatusTooManyRequests,
				"rate limit exceeded, retry "+humanize.Time(time.Now().Add(retryAfter)))
			return
		}
		slog.Error("internal error", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// RequireActor extracts the acting user from the X-User-ID and X-User-Name
// headers set by the platform gateway. A missing ID is a 400.
func RequireActor(r *http.Request) (engine.Actor, error) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return engine.Actor{}, errors.New("X-User-ID header required")
	}
	return engine.Actor{ID: id, Name: r.Header.Get("X-User-Name")}, nil
}

// GetClientIP extracts the client IP address
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr
func GetClientIP(r *http.Request) string {
	// Check X-Forwarded-For (load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in chain
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' || xff[i] == ' ' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP (nginx)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	// Strip port if present
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
)

// ContentTypeValidation rejects write requests whose body is not JSON.
// Bodiless requests pass through so DELETE-style calls made with PUT still work.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if contentType != "application/json" {
					log.Warn("Invalid Content-Type header",
						"request_id", requestIDFrom(r),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					writeFailure(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	default:
		return false
	}
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.Split(header, ";")
	return strings.ToLower(strings.TrimSpace(parts[0]))
}

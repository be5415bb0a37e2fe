package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

// ResultsHeader is the response header carrying per-file conversion results.
const ResultsHeader = "X-Conversion-Results"

// CORS allows browser clients from allowedOrigins to call the API and read
// the results header. An empty list allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", RequestIDHeader}),
		handlers.ExposedHeaders([]string{ResultsHeader, RequestIDHeader, "Content-Disposition"}),
		handlers.MaxAge(600),
	)
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// OpenAPIValidator checks JSON requests against the loaded document. Requests the
// document does not describe, and non-JSON bodies, pass through untouched.
func OpenAPIValidator(doc *openapi3.T, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength != 0 && !isJSON(r.Header.Get("Content-Type")) {
				next.ServeHTTP(w, r)
				return
			}

			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				if err != routers.ErrPathNotFound && err != routers.ErrMethodNotAllowed {
					logger.Debug("openapi route lookup failed", "path", r.URL.Path, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				msg := err.Error()
				if i := strings.Index(msg, "\n"); i > 0 {
					msg = msg[:i]
				}
				logger.Warn("request rejected by openapi validation", "path", r.URL.Path, "error", msg)
				writeAppError(w, internal.NewValidationError(msg, internal.ErrCodeValidationFailed))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/vanyajewels/storefront/pkg/logger"
	"github.com/vanyajewels/storefront/pkg/response"
)

// Recovery catches panics from downstream handlers, logs the stack trace,
// and answers with the generic 500 envelope. Mount it above every handler.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/airvigil/airvigil/internal/api/models"
)

// ContentTypeJSON stamps application/json on responses that have not picked a
// content type themselves, and rejects request bodies that declare anything
// other than JSON. A body with no Content-Type at all passes through.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				problem := models.NewProblem(
					models.ProblemTypeValidation,
					"Unsupported media type",
					http.StatusUnsupportedMediaType,
					GetRequestID(r.Context()),
				).WithDetail("request body must be application/json").WithInstance(r.URL.Path)
				problem.Write(w)
				return
			}
		}

		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

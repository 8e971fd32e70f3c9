package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RequireFields rejects a request before the handler runs when any of the
// named body fields is absent, null, or an empty string. The body is
// re-buffered so the handler can decode it again.
func RequireFields(fields ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeMessage(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				writeMessage(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			for _, field := range fields {
				value, ok := parsed[field]
				if !ok || value == nil || value == "" {
					writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Missing field: %s", field))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

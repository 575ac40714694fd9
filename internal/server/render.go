package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeErrorDetail writes an error body in the {"detail": {...}} envelope
// the API has always used for error statuses.
func writeErrorDetail(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"detail": map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
	})
}

// decodeJSON decodes a request body into dest.
func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// utcTimestamp renders the current time the way the API has always
// reported it: microsecond-precision UTC with a literal Z suffix.
func utcTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}

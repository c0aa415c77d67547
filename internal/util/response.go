// response.go — HTTP response helpers for the serve endpoints.
package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// JSONResponse writes data as a JSON response with the given status.
// Encoding failures are logged, not surfaced; headers are already out.
func JSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "[issuetap] encode JSON response: %v\n", err)
	}
}

// JSONError writes a standard {"error": msg} body with the given
// status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSONResponse(w, status, map[string]string{"error": msg})
}

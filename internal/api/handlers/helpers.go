package handlers

import (
	"carrier-match-service/internal/api/dto"
	"carrier-match-service/internal/platform/obs"
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf(
			"encode response failed: req_id=%s method=%s path=%s err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, err,
		)
	}
}

// writeError responds with {"error": msg, "request_id": ...}.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{
		Error:     msg,
		RequestID: obs.RequestID(r.Context()),
	})
}

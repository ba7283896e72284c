package main

import (
	"encoding/json"
	"net/http"

	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// APIResponse centralises the JSON headers every endpoint sets.
type APIResponse struct {
	w           http.ResponseWriter
	r           *http.Request
	cacheStatus string
	sessionID   string
	format      string
}

// Respond creates a response helper for one request.
func Respond(w http.ResponseWriter, r *http.Request) *APIResponse {
	return &APIResponse{w: w, r: r}
}

// SetCacheStatus sets X-Cache-Status (HIT, MISS or BYPASS).
func (a *APIResponse) SetCacheStatus(status string) *APIResponse {
	a.cacheStatus = status
	return a
}

// SetSession sets X-Session-ID.
func (a *APIResponse) SetSession(id string) *APIResponse {
	a.sessionID = id
	return a
}

// SetFormat sets X-Lyrics-Format.
func (a *APIResponse) SetFormat(format string) *APIResponse {
	a.format = format
	return a
}

func (a *APIResponse) writeHeaders() {
	h := a.w.Header()
	h.Set("Content-Type", "application/json")
	if a.cacheStatus != "" {
		h.Set("X-Cache-Status", a.cacheStatus)
	}
	if a.sessionID != "" {
		h.Set("X-Session-ID", a.sessionID)
	}
	if a.format != "" {
		h.Set("X-Lyrics-Format", a.format)
	}
}

// JSON writes data with 200 OK.
func (a *APIResponse) JSON(data interface{}) {
	a.Status(http.StatusOK, data)
}

// Status writes data with the given status code.
func (a *APIResponse) Status(code int, data interface{}) {
	a.writeHeaders()
	a.w.WriteHeader(code)
	if err := json.NewEncoder(a.w).Encode(data); err != nil {
		log.Errorf("%s Encoding response for %s failed: %v", logcolors.LogServer, a.r.URL.Path, err)
	}
}

// Error writes {"error": msg} with the given status code.
func (a *APIResponse) Error(code int, msg string) {
	a.Status(code, map[string]string{"error": msg})
}

// NoContent writes 204 with the standard headers.
func (a *APIResponse) NoContent() {
	a.writeHeaders()
	a.w.WriteHeader(http.StatusNoContent)
}

package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/scrape"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	scraper   *scrape.Scraper
	responses *cache.ResponseCache
}

// NewHandler creates a new handler
func NewHandler(scraper *scrape.Scraper, responses *cache.ResponseCache) *Handler {
	return &Handler{
		scraper:   scraper,
		responses: responses,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":  "healthy",
		"service": "gridiron",
		"version": "1.0.0",
	}
	if h.responses != nil {
		if err := h.responses.HealthCheck(r.Context()); err != nil {
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}
	respondJSON(w, http.StatusOK, status)
}

// Index serves the welcome page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte("<h1>Welcome to our server !!</h1>"))
}

// GetGroupLeaderboard handles GET /api/?group=<id>. Successful responses are
// cached per group for a couple of minutes; a scrape only runs on a miss.
// The missing-group and empty-group cases come back as 200s with an ERROR
// body, matching what the frontend expects; real failures are 500s.
func (h *Handler) GetGroupLeaderboard(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	log.Printf("[api] got group_id: %q", groupID)

	if h.responses != nil && groupID != "" {
		if body, ok := h.responses.Get(r.Context(), groupID); ok {
			writeRawJSON(w, http.StatusOK, body)
			return
		}
	}

	envelope, err := h.scraper.ScrapeGroup(r.Context(), groupID, true)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to scrape group", err)
		return
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode response", err)
		return
	}

	if h.responses != nil && groupID != "" && envelope.Error == "" {
		if err := h.responses.Set(r.Context(), groupID, body); err != nil {
			log.Printf("[api] cache write failed for group %s: %v", groupID, err)
		}
	}

	writeRawJSON(w, http.StatusOK, body)
}

// writeRawJSON writes an already-encoded JSON body
func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}

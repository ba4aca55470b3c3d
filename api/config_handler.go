package api

import (
	"net/http"

	"github.com/seenimoa/tickerintel/internal/config"
)

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config *config.Config `json:"config"`
}

// handleGetConfig returns the running configuration. It holds endpoints
// and limits only; API keys are never part of it.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    ConfigResponse{Config: s.cfg},
	})
}

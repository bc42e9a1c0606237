package http

import (
	"net/http"

	"fintrack/internal/log"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	view, err := s.dashboard.Summary(r.Context(), userID(r))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary computation failed",
			log.FieldUserID, userID(r),
			log.FieldError, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

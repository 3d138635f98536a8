package http

import "net/http"

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.repo.ListUnacknowledgedAlerts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]jsonAlert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toJSONAlert(a))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := s.repo.AcknowledgeAlert(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

package http

import (
	"net/http"

	"financeflow/internal/core"
)

type goalRequest struct {
	Name         string `json:"name"`
	TargetCents  int64  `json:"target_cents"`
	CurrentCents int64  `json:"current_cents"`
	Deadline     string `json:"deadline"`
}

func (req goalRequest) toDomain(id int64) (core.Goal, error) {
	deadline, err := parseWireDate(req.Deadline)
	if err != nil {
		return core.Goal{}, err
	}
	return core.Goal{
		ID:            id,
		Name:          req.Name,
		TargetAmount:  core.Money{Cents: req.TargetCents},
		CurrentAmount: core.Money{Cents: req.CurrentCents},
		Deadline:      deadline,
	}, nil
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.repo.Goals(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]jsonGoal, 0, len(goals))
	for _, g := range goals {
		out = append(out, toJSONGoal(g))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	g, err := req.toDomain(0)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if err := g.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := s.repo.CreateGoal(r.Context(), g)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(toJSONGoal(created)).Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	g, err := req.toDomain(id)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if err := g.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.repo.UpdateGoal(r.Context(), g); err != nil {
		writeDomainError(w, err)
		return
	}
	NewJSONResponse().Body(toJSONGoal(g)).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := s.repo.DeleteGoal(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

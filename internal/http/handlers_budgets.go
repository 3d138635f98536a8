package http

import (
	"log/slog"
	"net/http"

	"financeflow/internal/core"
)

type budgetRequest struct {
	CategoryID  int64  `json:"category_id"`
	AmountCents int64  `json:"amount_cents"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (req budgetRequest) toDomain(id int64) (core.Budget, error) {
	start, err := parseWireDate(req.PeriodStart)
	if err != nil {
		return core.Budget{}, err
	}
	end, err := parseWireDate(req.PeriodEnd)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		ID:          id,
		CategoryID:  req.CategoryID,
		Amount:      core.Money{Cents: req.AmountCents},
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	details, err := s.repo.BudgetsWithDetails(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]jsonBudgetDetail, 0, len(details))
	for _, d := range details {
		out = append(out, toJSONBudgetDetail(d))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	b, err := req.toDomain(0)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if err := b.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := s.repo.CreateBudget(r.Context(), b)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateSummaries()

	NewJSONResponse().Status(http.StatusCreated).Body(toJSONBudget(created)).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	b, err := req.toDomain(id)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if err := b.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.repo.UpdateBudget(r.Context(), b); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateSummaries()

	NewJSONResponse().Body(toJSONBudget(b)).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := s.repo.DeleteBudget(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateSummaries()

	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	details, cached := s.summaryCache.Get(summaryCacheKey)
	if !cached {
		var err error
		details, err = s.repo.BudgetsWithDetails(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.summaryCache.Set(summaryCacheKey, details)
	} else {
		slog.DebugContext(r.Context(), "Budget summary cache hit")
	}

	out := make([]jsonBudgetDetail, 0, len(details))
	for _, d := range details {
		out = append(out, toJSONBudgetDetail(d))
	}
	NewJSONResponse().Body(out).Write(w)
}

package http

import (
	"net/http"

	"financeflow/internal/core"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (req categoryRequest) toDomain(id int64) core.Category {
	return core.Category{
		ID:    id,
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	}
}

type hideCategoryRequest struct {
	Hidden *bool `json:"hidden"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	includeHidden := queryBool(r.URL.Query(), "include_hidden")

	cats, err := s.categories.List(r.Context(), includeHidden)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]jsonCategory, 0, len(cats))
	for _, c := range cats {
		out = append(out, toJSONCategory(c))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	created, err := s.categories.Create(r.Context(), req.toDomain(0))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	NewJSONResponse().Status(http.StatusCreated).Body(toJSONCategory(created)).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := s.categories.Update(r.Context(), req.toDomain(id)); err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := s.categories.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	NewJSONResponse().Body(toJSONCategory(updated)).Write(w)
}

func (s *Server) handleHideCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	// Absent body or field means hide; {"hidden": false} unhides.
	hidden := true
	var req hideCategoryRequest
	if err := decodeJSON(w, r, &req); err == nil && req.Hidden != nil {
		hidden = *req.Hidden
	}

	if err := s.categories.SetHidden(r.Context(), id, hidden); err != nil {
		writeDomainError(w, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	force := queryBool(r.URL.Query(), "force")

	if err := s.categories.Delete(r.Context(), id, force); err != nil {
		writeDomainError(w, err)
		return
	}

	// Forced deletion detaches transactions and cascades budgets, so
	// cached summaries are stale either way.
	s.invalidateSummaries()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

package http

import (
	"errors"
	"net/http"

	"financeflow/internal/export"
)

type exportRequest struct {
	Format              string  `json:"format"`
	IncludeTransactions bool    `json:"include_transactions"`
	IncludeCategories   bool    `json:"include_categories"`
	IncludeBudgets      bool    `json:"include_budgets"`
	IncludeGoals        bool    `json:"include_goals"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	CategoryIDs         []int64 `json:"category_ids"`
	Anonymize           bool    `json:"anonymize"`
	ExportID            string  `json:"export_id"`
}

func (req exportRequest) toOptions() (export.Options, error) {
	start, err := parseWireDate(req.StartDate)
	if err != nil {
		return export.Options{}, err
	}
	end, err := parseWireDate(req.EndDate)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{
		Format:              export.Format(req.Format),
		IncludeTransactions: req.IncludeTransactions,
		IncludeCategories:   req.IncludeCategories,
		IncludeBudgets:      req.IncludeBudgets,
		IncludeGoals:        req.IncludeGoals,
		StartDate:           start,
		EndDate:             end,
		CategoryIDs:         req.CategoryIDs,
		Anonymize:           req.Anonymize,
	}, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	opts, err := req.toOptions()
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	// Progress subscribers over HTTP would need streaming; the result
	// carries everything a synchronous client needs.
	result := s.exports.Export(r.Context(), opts, nil, req.ExportID)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	NewJSONResponse().Status(status).Body(result).Write(w)
}

func exportOptionsFromQuery(r *http.Request) export.Options {
	q := r.URL.Query()
	return export.Options{
		Format:              export.Format(q.Get("format")),
		IncludeTransactions: queryBool(q, "transactions"),
		IncludeCategories:   queryBool(q, "categories"),
		IncludeBudgets:      queryBool(q, "budgets"),
		IncludeGoals:        queryBool(q, "goals"),
	}
}

func (s *Server) handleExportEstimate(w http.ResponseWriter, r *http.Request) {
	estimate, err := s.exports.Estimate(r.Context(), exportOptionsFromQuery(r))
	if err != nil {
		var verrs export.ValidationErrors
		if errors.As(err, &verrs) {
			UnprocessableEntityError(verrs.Error()).Write(w)
			return
		}
		writeDomainError(w, err)
		return
	}
	NewJSONResponse().Body(estimate).Write(w)
}

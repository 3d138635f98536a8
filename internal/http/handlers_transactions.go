package http

import (
	"net/http"

	"financeflow/internal/core"
	"financeflow/internal/storage"
)

type transactionRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
	Type        string `json:"type"`
	Date        string `json:"date"`
}

func (req transactionRequest) toDomain(id int64) (core.Transaction, error) {
	date, err := parseWireDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          id,
		Amount:      core.Money{Cents: req.AmountCents},
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Type:        core.TransactionType(req.Type),
		Date:        date,
	}, nil
}

type transactionResponse struct {
	Transaction jsonTransaction `json:"transaction"`
	Impacts     []jsonImpact    `json:"impacts"`
}

type impactsResponse struct {
	Impacts []jsonImpact `json:"impacts"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	t, err := req.toDomain(0)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, impacts, err := s.transactions.CreateTransaction(r.Context(), t)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateSummaries()

	NewJSONResponse().
		Status(http.StatusCreated).
		Body(transactionResponse{
			Transaction: toJSONTransaction(created),
			Impacts:     toJSONImpacts(impacts),
		}).
		Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.TransactionFilter{
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		CategoryID: queryInt64(q, "category_id"),
	}

	details, err := s.repo.ListTransactions(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]jsonTransactionDetail, 0, len(details))
	for _, d := range details {
		out = append(out, toJSONTransactionDetail(d))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	t, err := req.toDomain(id)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	impacts, err := s.transactions.UpdateTransaction(r.Context(), t)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateSummaries()

	NewJSONResponse().Body(impactsResponse{Impacts: toJSONImpacts(impacts)}).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	impacts, err := s.transactions.DeleteTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateSummaries()

	NewJSONResponse().Body(impactsResponse{Impacts: toJSONImpacts(impacts)}).Write(w)
}

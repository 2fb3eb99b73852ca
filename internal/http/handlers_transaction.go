package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
)

type transactionRequest struct {
	Title      string      `json:"title"`
	Amount     json.Number `json:"amount"`
	Kind       string      `json:"kind"`
	CategoryID int64       `json:"category_id"`
}

type transactionResponse struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Amount     json.Number `json:"amount"`
	Kind       string      `json:"kind"`
	CategoryID int64       `json:"category_id"`
	OwnerID    int64       `json:"owner_id"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID,
		Title:      t.Title,
		Amount:     json.Number(t.Amount.String()),
		Kind:       string(t.Kind),
		CategoryID: t.CategoryID,
		OwnerID:    t.OwnerID,
	}
}

// fields converts the request body into domain fields. The amount arrives
// as a JSON number and is parsed into cents without a float round trip.
func (req transactionRequest) fields() (core.TransactionFields, error) {
	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		return core.TransactionFields{}, err
	}
	return core.TransactionFields{
		Title:      req.Title,
		Amount:     amount,
		Kind:       core.Kind(req.Kind),
		CategoryID: req.CategoryID,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields, err := req.fields()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	tx, err := s.ledger.CreateTransaction(r.Context(), ownerID, fields)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	offset, limit := parseOffsetLimit(r)
	txs, err := s.ledger.Transactions(r.Context(), ownerID, offset, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	tx, err := s.ledger.Transaction(r.Context(), ownerID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields, err := req.fields()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	tx, err := s.ledger.UpdateTransaction(r.Context(), ownerID, id, fields)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	// The deleted snapshot goes back to the caller so they can confirm what
	// was removed.
	tx, err := s.ledger.DeleteTransaction(r.Context(), ownerID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

package http

import (
	"encoding/json"
	"net/http"
)

type spendingRow struct {
	Category string      `json:"category"`
	Total    json.Number `json:"total"`
}

// handleSpendingReport returns the summed expense amount per category for
// the authenticated owner, ordered by category name. Categories without
// expense transactions are absent.
func (s *Server) handleSpendingReport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	report, err := s.ledger.SpendingByCategory(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]spendingRow, 0, len(report))
	for _, row := range report {
		out = append(out, spendingRow{
			Category: row.Name,
			Total:    json.Number(row.Total.String()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

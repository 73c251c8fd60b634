package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error      string `json:"error"`
	Kind       string `json:"kind"`
	ResultCode string `json:"result_code,omitempty"`
}

// statusForKind maps a flow error kind to an HTTP status.
// Validation problems are the caller's to fix; insufficient funds and ledger
// rejections are well-formed requests the network refused; network trouble is
// a 503 so clients know a retry may succeed.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindSigning:
		return http.StatusBadRequest
	case domain.KindInsufficientFunds, domain.KindLedgerRejected:
		return http.StatusUnprocessableEntity
	case domain.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders an error as JSON with the status derived from its kind.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	body := errorBody{
		Error: err.Error(),
		Kind:  string(kind),
	}
	var flowErr *domain.FlowError
	if errors.As(err, &flowErr) {
		body.ResultCode = flowErr.ResultCode
	}

	writeJSON(w, statusForKind(kind), body)
}

// writeJSON renders any payload with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

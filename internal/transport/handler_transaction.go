package transport

import (
	"net/http"

	"github.com/guestify/kitstate/internal/document"
	"github.com/guestify/kitstate/model"
)

// validateTransactionRequest is the body of POST /v1/transactions/validate.
// State is the document the transaction would be applied to; it may be
// omitted for schema-only checking of the transaction envelope.
type validateTransactionRequest struct {
	Transaction *model.Transaction `json:"transaction"`
	State       model.State        `json:"state"`
	AutoRecover bool               `json:"autoRecover"`
}

// validateTransactionResponse extends the verdict with the recovered
// transaction when a strategy was able to fix it.
type validateTransactionResponse struct {
	model.Result
	FixedTransaction *model.Transaction `json:"fixedTransaction,omitempty"`
}

// HandleValidateTransaction validates a mutation intent against its payload
// schema and the supplied document. With autoRecover set, recoverable
// failures return the adjusted transaction alongside the verdict.
func (h *Handlers) HandleValidateTransaction(w http.ResponseWriter, r *http.Request) {
	var req validateTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Transaction == nil {
		WriteBadRequest(w, "transaction is required")
		return
	}
	if req.State == nil {
		req.State = model.State{}
	}

	res := h.Validator.ValidateTransaction(*req.Transaction, req.State)
	resp := validateTransactionResponse{Result: res}

	if !res.Valid && req.AutoRecover {
		fixed := h.Validator.AttemptRecovery(*req.Transaction, res.Errors, document.RecoveryContext{
			Transaction: req.Transaction,
			State:       req.State,
		})
		if tx, ok := fixed.(model.Transaction); ok {
			resp.FixedTransaction = &tx
			resp.Recovered = true
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/guestify/kitstate/internal/document"
	"github.com/guestify/kitstate/internal/observability"
	"github.com/guestify/kitstate/internal/schema"
	"github.com/guestify/kitstate/model"
)

// validateStateRequest is the body of POST /v1/documents/validate.
type validateStateRequest struct {
	State       model.State `json:"state"`
	AutoRecover bool        `json:"autoRecover"`
}

// repairStateRequest is the body of POST /v1/documents/repair and
// POST /v1/documents/migrate.
type repairStateRequest struct {
	State model.State `json:"state"`
}

// repairStateResponse is the result of a repair or migration.
type repairStateResponse struct {
	State    model.State `json:"state"`
	Repaired bool        `json:"repaired,omitempty"`
	Migrated bool        `json:"migrated,omitempty"`
	Version  string      `json:"version,omitempty"`
}

// HandleValidateState validates a document and returns the verdict. The
// verdict is always a 200: an invalid document is a successful validation.
// The auto_recover query parameter overrides the body flag.
func (h *Handlers) HandleValidateState(w http.ResponseWriter, r *http.Request) {
	var req validateStateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.State == nil {
		WriteBadRequest(w, "state is required")
		return
	}
	if q := r.URL.Query().Get("auto_recover"); q != "" {
		req.AutoRecover = q == "true" || q == "1"
	}

	res := h.Validator.ValidateState(req.State, document.ValidateOptions{
		AutoRecover: req.AutoRecover,
	})
	WriteJSON(w, http.StatusOK, res)
}

// HandleRepairState runs the full validate-recover-rebuild pipeline and
// returns a document guaranteed to validate, or 422 when even the rebuild
// fails.
func (h *Handlers) HandleRepairState(w http.ResponseWriter, r *http.Request) {
	var req repairStateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.State == nil {
		WriteBadRequest(w, "state is required")
		return
	}

	repaired, err := h.Validator.ValidateAndRepair(r.Context(), req.State)
	if err != nil {
		if errors.Is(err, document.ErrUnrepairable) {
			WriteError(w, model.NewUnrepairableError(nil))
			return
		}
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, repairStateResponse{
		State:    repaired,
		Repaired: true,
		Version:  repaired.Version(),
	})
}

// HandleMigrateState upgrades a document through the version migration chain.
// A document already at the current version passes through unchanged.
func (h *Handlers) HandleMigrateState(w http.ResponseWriter, r *http.Request) {
	var req repairStateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.State == nil {
		WriteBadRequest(w, "state is required")
		return
	}

	from := req.State.Version()
	migrated, changed := schema.Migrate(req.State)
	if changed {
		if from == "" {
			from = "1.0.0"
		}
		h.Metrics.RecordMigration(from, migrated.Version())
		observability.RequestLogger(r.Context(), h.Logger).Info("document migrated")
	}
	WriteJSON(w, http.StatusOK, repairStateResponse{
		State:    migrated,
		Migrated: changed,
		Version:  migrated.Version(),
	})
}

// decodeBody decodes a JSON request body, writing a 400 and returning false
// on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		WriteBadRequest(w, "request body is required")
	default:
		WriteBadRequest(w, "invalid JSON body: "+err.Error())
	}
	return false
}

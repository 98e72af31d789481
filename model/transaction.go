package model

// Transaction types understood by the validator.
const (
	TxAddComponent         = "ADD_COMPONENT"
	TxRemoveComponent      = "REMOVE_COMPONENT"
	TxUpdateComponent      = "UPDATE_COMPONENT"
	TxMoveComponent        = "MOVE_COMPONENT"
	TxSetLayout            = "SET_LAYOUT"
	TxSetState             = "SET_STATE"
	TxUpdateGlobalSettings = "UPDATE_GLOBAL_SETTINGS"
	TxAddSection           = "ADD_SECTION"
	TxRemoveSection        = "REMOVE_SECTION"
	TxUpdateSection        = "UPDATE_SECTION"
	TxUpdateSections       = "UPDATE_SECTIONS"
)

// Transaction describes a single mutation intent applied to a document by the
// external state manager. The payload shape depends on the type; transactions
// are transient and never stored by the validator.
type Transaction struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// PayloadMap returns the payload as an object, or nil.
func (t Transaction) PayloadMap() map[string]any {
	m, _ := t.Payload.(map[string]any)
	return m
}

// PayloadString returns the payload as a string (REMOVE_COMPONENT and
// REMOVE_SECTION carry a bare id), or "".
func (t Transaction) PayloadString() string {
	s, _ := t.Payload.(string)
	return s
}

// Clone returns a deep copy of the transaction.
func (t Transaction) Clone() Transaction {
	return Transaction{Type: t.Type, Payload: CloneValue(t.Payload)}
}

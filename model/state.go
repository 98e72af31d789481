// Package model contains the shared value types of the media-kit state
// validation service: documents, transactions, validation results, and the
// coded errors that flow between the validator and its callers.
package model

// State is a builder document as decoded from JSON. It stays dynamic on
// purpose: the validator's job is to judge malformed shapes, which a typed
// struct could not even represent. Accessors below are best-effort and return
// zero values for missing or mistyped fields.
type State map[string]any

// Components returns the component map, or nil when absent or mistyped.
func (s State) Components() map[string]any {
	m, _ := s["components"].(map[string]any)
	return m
}

// Layout returns the raw layout value. Callers that need the id list should
// use LayoutIDs.
func (s State) Layout() any {
	return s["layout"]
}

// LayoutIDs returns the layout as a string slice. Non-string entries are
// skipped; a non-array layout yields nil.
func (s State) LayoutIDs() []string {
	raw, ok := s["layout"].([]any)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// GlobalSettings returns the globalSettings map, or nil when absent.
func (s State) GlobalSettings() map[string]any {
	m, _ := s["globalSettings"].(map[string]any)
	return m
}

// Version returns the document's schema version string, or "" when absent.
func (s State) Version() string {
	v, _ := s["version"].(string)
	return v
}

// Clone returns a deep copy of the state. Maps and slices are copied;
// scalars are shared.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	return State(cloneMap(s))
}

// CloneValue deep-copies an arbitrary decoded JSON value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

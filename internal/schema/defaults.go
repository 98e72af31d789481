package schema

import "github.com/guestify/kitstate/model"

// CurrentVersion is the schema revision new documents are produced against.
const CurrentVersion = "3.0.0"

// DefaultState returns a fresh empty document. Every call builds new maps so
// callers can never alias or mutate a shared default.
func DefaultState() model.State {
	return model.State{
		"layout":     []any{},
		"components": map[string]any{},
		"sections":   []any{},
		"globalSettings": map[string]any{
			"theme": map[string]any{
				"primaryColor":   "#2196F3",
				"secondaryColor": "#FFC107",
				"fontFamily":     "system-ui, -apple-system, sans-serif",
				"fontSize":       "medium",
			},
			"layout": map[string]any{
				"maxWidth":  "1200px",
				"spacing":   "normal",
				"alignment": "center",
			},
			"advanced": map[string]any{
				"customCSS": "",
				"customJS":  "",
			},
		},
		"version": CurrentVersion,
	}
}

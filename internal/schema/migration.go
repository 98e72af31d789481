package schema

import "github.com/guestify/kitstate/model"

// Migration lifts a document from one schema version to the next.
type Migration struct {
	From        string
	To          string
	Description string
	Apply       func(model.State) model.State
}

// Migrations is the ordered upgrade chain. Each entry's To must match the
// next entry's From.
var Migrations = []Migration{
	{
		From:        "1.0.0",
		To:          "2.0.0",
		Description: "lift legacy documents into the enhanced structure",
		Apply: func(s model.State) model.State {
			out := model.State{
				"layout":         s["layout"],
				"components":     s["components"],
				"globalSettings": s["globalSettings"],
				"version":        "2.0.0",
			}
			if out["layout"] == nil {
				out["layout"] = []any{}
			}
			if out["components"] == nil {
				out["components"] = map[string]any{}
			}
			if out["globalSettings"] == nil {
				out["globalSettings"] = map[string]any{}
			}
			return out
		},
	},
	{
		From:        "2.0.0",
		To:          "3.0.0",
		Description: "introduce section configurations",
		Apply: func(s model.State) model.State {
			out := s.Clone()
			if _, ok := out["sections"]; !ok {
				out["sections"] = []any{}
			}
			out["version"] = "3.0.0"
			return out
		},
	},
}

// Migrate upgrades a document to CurrentVersion by applying the migration
// chain from the document's version onward. It reports whether any migration
// ran. Documents already at CurrentVersion, or at an unknown version, are
// returned unchanged.
func Migrate(s model.State) (model.State, bool) {
	version := s.Version()
	if version == "" {
		version = "1.0.0"
	}

	migrated := false
	for _, m := range Migrations {
		if m.From != version {
			continue
		}
		s = m.Apply(s.Clone())
		version = m.To
		migrated = true
	}
	return s, migrated
}

package schema

// Shared patterns. The document schema, every transaction schema, and the
// repair engine all reference these constants so the rules cannot drift.
const (
	// IDPattern constrains component and section identifiers.
	IDPattern = "^[a-zA-Z0-9_-]+$"
	// VersionPattern constrains document schema versions (semver).
	VersionPattern = `^\d+\.\d+\.\d+$`
	// HexColorPattern constrains theme colors.
	HexColorPattern = "^#[0-9A-Fa-f]{6}$"
)

// Constraints holds the numeric and size limits enforced on documents.
type Constraints struct {
	MaxComponents        int `yaml:"max_components"`
	MaxComponentIDLength int `yaml:"max_component_id_length"`
	MaxCustomCSSLength   int `yaml:"max_custom_css_length"`
	MaxCustomJSLength    int `yaml:"max_custom_js_length"`
	MaxLayoutDepth       int `yaml:"max_layout_depth"`
}

// DefaultConstraints returns the stock limits.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxComponents:        100,
		MaxComponentIDLength: 100,
		MaxCustomCSSLength:   10000,
		MaxCustomJSLength:    10000,
		MaxLayoutDepth:       10,
	}
}

// ComponentTypes is the advisory list of known component kinds. It is never
// a hard gate: unknown types validate with a warning so new component kinds
// cannot block authoring. Repair falls back to ComponentTypeFallback only
// when a component carries no type at all.
var ComponentTypes = []string{
	"hero", "topics", "testimonials", "faq", "stats",
	"features", "cta", "gallery", "video", "map",
	"team", "pricing", "newsletter", "social", "custom",
}

// ComponentTypeFallback is the type assigned during repair when none is set.
const ComponentTypeFallback = "custom"

var componentTypeSet = func() map[string]bool {
	m := make(map[string]bool, len(ComponentTypes))
	for _, t := range ComponentTypes {
		m[t] = true
	}
	return m
}()

// KnownComponentType reports whether t is in the advisory type list.
func KnownComponentType(t string) bool {
	return componentTypeSet[t]
}

// SectionTypes is the closed list of section kinds.
var SectionTypes = []string{"full_width", "two_column", "three_column", "grid", "hero"}

// Package schema declares, as pure data, the valid shape of a builder
// document and of every transaction that can mutate one, together with the
// numeric constraints and the default document. It contains no validation
// logic; the structural package interprets these definitions.
package schema

// Value types usable in a Schema.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Schema is a declarative shape description, a small subset of JSON Schema.
// The zero value of every field means "unconstrained".
type Schema struct {
	Type     string
	Required []string

	// Object constraints.
	Properties        map[string]*Schema
	PatternProperties map[string]*Schema
	// AdditionalProperties gates undeclared keys. Nil permits them.
	AdditionalProperties *bool

	// Array constraints.
	Items       *Schema
	UniqueItems bool

	// String constraints.
	Pattern   string
	Enum      []string
	Const     string
	MinLength int
	MaxLength int
	Format    string

	// Numeric constraints.
	Minimum *float64
	Maximum *float64
}

var (
	open   = true
	closed = false
)

// Closed marks an object schema as rejecting undeclared keys.
var Closed = &closed

// Open marks an object schema as explicitly permitting undeclared keys.
var Open = &open

func f64(v float64) *float64 { return &v }

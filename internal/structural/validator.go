// Package structural implements a generic, schema-agnostic conformance
// checker: a small interpreter over the declarative schema.Schema data.
// It is a pure leaf dependency of the document validator.
package structural

import (
	"fmt"
	"regexp"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/guestify/kitstate/internal/schema"
	"github.com/guestify/kitstate/model"
)

// Validate checks value against s and returns every violation found. An
// empty result means the value conforms. The input is never mutated and the
// interpreter never panics: an uncompilable pattern simply skips that check.
func Validate(value any, s *schema.Schema) []model.FieldError {
	var errs []model.FieldError
	walk("", value, s, &errs)
	return errs
}

// Conforms reports whether value matches s with no violations.
func Conforms(value any, s *schema.Schema) bool {
	return len(Validate(value, s)) == 0
}

func walk(path string, value any, s *schema.Schema, errs *[]model.FieldError) {
	if s == nil {
		return
	}

	if s.Type != "" && !typeMatches(value, s.Type) {
		*errs = append(*errs, model.FieldError{
			Field:   path,
			Kind:    model.KindTypeMismatch,
			Message: fmt.Sprintf("expected %s, got %s", s.Type, typeName(value)),
		})
		return
	}

	switch v := value.(type) {
	case map[string]any:
		walkObject(path, v, s, errs)
	case []any:
		walkArray(path, v, s, errs)
	case string:
		walkString(path, v, s, errs)
	default:
		if f, ok := toFloat(value); ok {
			walkNumber(path, f, s, errs)
		}
	}
}

func walkObject(path string, obj map[string]any, s *schema.Schema, errs *[]model.FieldError) {
	for _, req := range s.Required {
		if _, ok := obj[req]; !ok {
			*errs = append(*errs, model.FieldError{
				Field:   join(path, req),
				Kind:    model.KindRequired,
				Message: fmt.Sprintf("%s is required", req),
			})
		}
	}

	for key, val := range obj {
		child := join(path, key)

		if sub, ok := s.Properties[key]; ok {
			walk(child, val, sub, errs)
			continue
		}

		matched := false
		for pattern, sub := range s.PatternProperties {
			re := compile(pattern)
			if re != nil && re.MatchString(key) {
				matched = true
				walk(child, val, sub, errs)
			}
		}
		if matched {
			continue
		}

		if len(s.Properties) == 0 && len(s.PatternProperties) == 0 {
			// Fully unschematized object, nothing to check.
			continue
		}
		if s.AdditionalProperties != nil && !*s.AdditionalProperties {
			*errs = append(*errs, model.FieldError{
				Field:   child,
				Kind:    model.KindUnknownProperty,
				Message: fmt.Sprintf("unknown property %q", key),
			})
		}
	}
}

func walkArray(path string, arr []any, s *schema.Schema, errs *[]model.FieldError) {
	if s.Items != nil {
		for i, item := range arr {
			walk(fmt.Sprintf("%s[%d]", path, i), item, s.Items, errs)
		}
	}

	if s.UniqueItems {
		seen := make(map[string]bool, len(arr))
		for i, item := range arr {
			key := fmt.Sprint(item)
			if seen[key] {
				*errs = append(*errs, model.FieldError{
					Field:   fmt.Sprintf("%s[%d]", path, i),
					Kind:    model.KindNotUnique,
					Message: fmt.Sprintf("duplicate item %q", key),
				})
			}
			seen[key] = true
		}
	}
}

func walkString(path, str string, s *schema.Schema, errs *[]model.FieldError) {
	length := utf8.RuneCountInString(str)
	if s.MinLength > 0 && length < s.MinLength {
		*errs = append(*errs, model.FieldError{
			Field:   path,
			Kind:    model.KindLength,
			Message: fmt.Sprintf("must be at least %d characters", s.MinLength),
		})
	}
	if s.MaxLength > 0 && length > s.MaxLength {
		*errs = append(*errs, model.FieldError{
			Field:   path,
			Kind:    model.KindLength,
			Message: fmt.Sprintf("must be at most %d characters", s.MaxLength),
		})
	}

	if s.Pattern != "" {
		if re := compile(s.Pattern); re != nil && !re.MatchString(str) {
			*errs = append(*errs, model.FieldError{
				Field:   path,
				Kind:    model.KindPattern,
				Message: fmt.Sprintf("%q does not match pattern %s", str, s.Pattern),
			})
		}
	}

	if s.Const != "" && str != s.Const {
		*errs = append(*errs, model.FieldError{
			Field:   path,
			Kind:    model.KindInvalidEnum,
			Message: fmt.Sprintf("must be %q", s.Const),
		})
	}

	if len(s.Enum) > 0 {
		found := false
		for _, allowed := range s.Enum {
			if str == allowed {
				found = true
				break
			}
		}
		if !found {
			*errs = append(*errs, model.FieldError{
				Field:   path,
				Kind:    model.KindInvalidEnum,
				Message: fmt.Sprintf("invalid value %q", str),
			})
		}
	}

	// Best-effort ISO-8601 recognition; other formats are ignored.
	if s.Format == "date-time" {
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			*errs = append(*errs, model.FieldError{
				Field:   path,
				Kind:    model.KindInvalidFormat,
				Message: fmt.Sprintf("%q is not a valid date-time", str),
			})
		}
	}
}

func walkNumber(path string, f float64, s *schema.Schema, errs *[]model.FieldError) {
	if s.Minimum != nil && f < *s.Minimum {
		*errs = append(*errs, model.FieldError{
			Field:   path,
			Kind:    model.KindRange,
			Message: fmt.Sprintf("must be at least %v", *s.Minimum),
		})
	}
	if s.Maximum != nil && f > *s.Maximum {
		*errs = append(*errs, model.FieldError{
			Field:   path,
			Kind:    model.KindRange,
			Message: fmt.Sprintf("must be at most %v", *s.Maximum),
		})
	}
}

func typeMatches(value any, want string) bool {
	switch want {
	case schema.TypeObject:
		_, ok := value.(map[string]any)
		return ok
	case schema.TypeArray:
		_, ok := value.([]any)
		return ok
	case schema.TypeString:
		_, ok := value.(string)
		return ok
	case schema.TypeBoolean:
		_, ok := value.(bool)
		return ok
	case schema.TypeNumber:
		_, ok := toFloat(value)
		return ok
	case schema.TypeInteger:
		f, ok := toFloat(value)
		return ok && f == float64(int64(f))
	default:
		return true
	}
}

// toFloat normalizes the numeric types produced by encoding/json and by
// hand-built fixtures.
func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		if _, ok := toFloat(value); ok {
			return "number"
		}
		return fmt.Sprintf("%T", value)
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Compiled pattern cache. Patterns come from static schema definitions, so
// the cache stays tiny; a pattern that fails to compile maps to nil and its
// check is skipped rather than panicking.
var (
	regexMu    sync.Mutex
	regexCache = make(map[string]*regexp.Regexp)
)

func compile(pattern string) *regexp.Regexp {
	regexMu.Lock()
	defer regexMu.Unlock()
	if re, ok := regexCache[pattern]; ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	regexCache[pattern] = re
	return re
}

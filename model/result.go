package model

// Result is the verdict of a validation call. Failures are always values,
// never panics: callers inspect Valid and Errors uniformly.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`

	// Recovered is set when automatic recovery produced Fixed from Original.
	Recovered bool  `json:"recovered,omitempty"`
	Original  State `json:"original,omitempty"`
	Fixed     any   `json:"fixed,omitempty"`

	// Cached is set when the verdict came from the fingerprint cache.
	Cached bool `json:"cached,omitempty"`

	// TestState is set when validation was bypassed for a test-id document.
	TestState bool `json:"isTestState,omitempty"`
}

// Invalid builds a failed Result from the given errors.
func Invalid(errs ...FieldError) Result {
	return Result{Valid: false, Errors: errs}
}

// StatsSnapshot is a point-in-time copy of the validator's running counters.
// Rates are preformatted percentage strings, e.g. "66.67%".
type StatsSnapshot struct {
	Total        int          `json:"total"`
	Passed       int          `json:"passed"`
	Failed       int          `json:"failed"`
	Recovered    int          `json:"recovered"`
	Errors       []FieldError `json:"errors"`
	CacheSize    int          `json:"cacheSize"`
	SuccessRate  string       `json:"successRate"`
	RecoveryRate string       `json:"recoveryRate"`
}

package document

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/guestify/kitstate/model"
)

// Stats returns a point-in-time copy of the running counters. Rates are
// formatted as percentage strings with two decimals; with nothing to divide
// by they read "0%".
func (v *Validator) Stats() model.StatsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := model.StatsSnapshot{
		Total:        v.stats.total,
		Passed:       v.stats.passed,
		Failed:       v.stats.failed,
		Recovered:    v.stats.recovered,
		Errors:       append([]model.FieldError(nil), v.stats.errors...),
		CacheSize:    len(v.cache),
		SuccessRate:  "0%",
		RecoveryRate: "0%",
	}
	if v.stats.total > 0 {
		snap.SuccessRate = formatRate(v.stats.passed, v.stats.total)
	}
	if v.stats.failed > 0 {
		snap.RecoveryRate = formatRate(v.stats.recovered, v.stats.failed)
	}
	return snap
}

// ResetStats zeroes every counter and drops the accumulated errors.
func (v *Validator) ResetStats() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stats = counters{}
	v.logger.Info("validation stats reset")
}

// ClearCache empties the fingerprint cache and returns the number of entries
// evicted.
func (v *Validator) ClearCache() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	evicted := len(v.cache)
	v.cache = make(map[string]bool)
	v.metrics.SetCacheSize(0)
	v.logger.Debug("fingerprint cache cleared", zap.Int("evicted", evicted))
	return evicted
}

// CacheSize returns the number of cached fingerprints.
func (v *Validator) CacheSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.cache)
}

func formatRate(part, whole int) string {
	return strconv.FormatFloat(float64(part)/float64(whole)*100, 'f', 2, 64) + "%"
}

// --- internal counter and cache plumbing ---

func (v *Validator) incTotal() {
	v.mu.Lock()
	v.stats.total++
	v.mu.Unlock()
}

func (v *Validator) recordPass() {
	v.mu.Lock()
	v.stats.passed++
	v.mu.Unlock()
}

func (v *Validator) recordFailure(errs []model.FieldError) {
	v.mu.Lock()
	v.stats.failed++
	for _, err := range errs {
		if len(v.stats.errors) >= v.maxTrackedErrors {
			break
		}
		v.stats.errors = append(v.stats.errors, err)
	}
	v.mu.Unlock()
}

func (v *Validator) recordRecovered() {
	v.mu.Lock()
	v.stats.recovered++
	v.mu.Unlock()
}

func (v *Validator) cacheLookup(fp string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache[fp]
}

func (v *Validator) cacheStore(fp string) {
	v.mu.Lock()
	v.cache[fp] = true
	v.metrics.SetCacheSize(len(v.cache))
	v.mu.Unlock()
}

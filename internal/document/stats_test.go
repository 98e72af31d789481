package document

import (
	"testing"

	"github.com/guestify/kitstate/model"
)

func TestStatsCountsAddUp(t *testing.T) {
	v := newTestValidator()

	v.ValidateState(validState(), ValidateOptions{}) // pass
	broken := validState()
	delete(broken, "components")
	v.ValidateState(broken, ValidateOptions{}) // fail
	v.ValidateTransaction(model.Transaction{Type: "NOPE"}, validState()) // fail

	snap := v.Stats()
	if snap.Total != 3 {
		t.Errorf("total = %d, want 3", snap.Total)
	}
	if snap.Passed != 1 || snap.Failed != 2 {
		t.Errorf("passed/failed = %d/%d, want 1/2", snap.Passed, snap.Failed)
	}
	if snap.Passed+snap.Failed != snap.Total {
		t.Errorf("passed+failed must equal total: %d+%d != %d", snap.Passed, snap.Failed, snap.Total)
	}
	if len(snap.Errors) == 0 {
		t.Error("failures must accumulate errors")
	}
}

func TestStatsRateFormatting(t *testing.T) {
	v := newTestValidator()

	v.ValidateState(validState(), ValidateOptions{})
	v.ValidateState(validState(), ValidateOptions{})
	broken := validState()
	delete(broken, "components")
	v.ValidateState(broken, ValidateOptions{})

	snap := v.Stats()
	if snap.SuccessRate != "66.67%" {
		t.Errorf("successRate = %q, want 66.67%%", snap.SuccessRate)
	}
	if snap.RecoveryRate != "0.00%" {
		t.Errorf("recoveryRate = %q, want 0.00%%", snap.RecoveryRate)
	}
}

func TestStatsZeroDivision(t *testing.T) {
	v := newTestValidator()
	snap := v.Stats()
	if snap.SuccessRate != "0%" || snap.RecoveryRate != "0%" {
		t.Errorf("rates with no activity = %q/%q, want 0%%/0%%",
			snap.SuccessRate, snap.RecoveryRate)
	}
}

func TestStatsRecoveryRate(t *testing.T) {
	v := newTestValidator()
	state := validState()
	state["layout"] = []any{"hero-1", "hero-1"}

	res := v.ValidateState(state, ValidateOptions{AutoRecover: true})
	if !res.Recovered {
		t.Fatalf("expected recovery, got %+v", res)
	}

	snap := v.Stats()
	if snap.Recovered != 1 || snap.Failed != 1 {
		t.Fatalf("recovered/failed = %d/%d, want 1/1", snap.Recovered, snap.Failed)
	}
	if snap.RecoveryRate != "100.00%" {
		t.Errorf("recoveryRate = %q, want 100.00%%", snap.RecoveryRate)
	}
}

func TestResetStats(t *testing.T) {
	v := newTestValidator()
	v.ValidateState(validState(), ValidateOptions{})
	v.ResetStats()

	snap := v.Stats()
	if snap.Total != 0 || snap.Passed != 0 || len(snap.Errors) != 0 {
		t.Errorf("reset left counters behind: %+v", snap)
	}
	// The cache survives a stats reset.
	if snap.CacheSize != 1 {
		t.Errorf("cacheSize = %d, want 1", snap.CacheSize)
	}
}

func TestClearCache(t *testing.T) {
	v := newTestValidator()
	v.ValidateState(validState(), ValidateOptions{})

	if evicted := v.ClearCache(); evicted != 1 {
		t.Errorf("evicted = %d, want 1", evicted)
	}
	if v.CacheSize() != 0 {
		t.Errorf("cacheSize = %d, want 0", v.CacheSize())
	}

	res := v.ValidateState(validState(), ValidateOptions{})
	if res.Cached {
		t.Error("verdict after a cache clear must be a fresh validation")
	}
}

func TestStatsErrorCap(t *testing.T) {
	v := newTestValidator(WithMaxTrackedErrors(5))
	broken := validState()
	delete(broken, "components")
	for i := 0; i < 20; i++ {
		v.ValidateState(broken, ValidateOptions{})
	}

	snap := v.Stats()
	if len(snap.Errors) > 5 {
		t.Errorf("tracked errors = %d, want at most 5", len(snap.Errors))
	}
	if snap.Failed != 20 {
		t.Errorf("failed = %d, want 20", snap.Failed)
	}
}

func TestConcurrentValidation(t *testing.T) {
	v := newTestValidator()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				v.ValidateState(validState(), ValidateOptions{})
				v.Stats()
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	snap := v.Stats()
	if snap.Total != 400 {
		t.Errorf("total = %d, want 400", snap.Total)
	}
	if snap.Passed != 400 {
		t.Errorf("passed = %d, want 400", snap.Passed)
	}
}

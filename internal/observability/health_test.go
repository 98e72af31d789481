package observability

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestHandleHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleHealth()(rr, httptest.NewRequest("GET", "/healthz", nil))

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestHandleReady(t *testing.T) {
	ready := HandleReady(ReadinessChecks{ValidatorReady: func() bool { return true }})
	rr := httptest.NewRecorder()
	ready(rr, httptest.NewRequest("GET", "/readyz", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	notReady := HandleReady(ReadinessChecks{})
	rr = httptest.NewRecorder()
	notReady(rr, httptest.NewRequest("GET", "/readyz", nil))
	if rr.Code != 503 {
		t.Fatalf("status = %d, want 503 when no validator is wired", rr.Code)
	}
}

func TestNewLoggerFallsBackOnBadLevel(t *testing.T) {
	logger, err := NewLogger("shouty")
	if err != nil {
		t.Fatalf("bad level must fall back, not fail: %v", err)
	}
	if logger == nil {
		t.Fatal("nil logger")
	}
}

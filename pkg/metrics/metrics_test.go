package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerWithCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithRegistry(reg),
		WithNamespace("test"),
		WithSubsystem("engine"),
	)
	if m == nil {
		t.Fatal("manager is nil")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	// CounterVecs with no observations yet do not show up; just make sure
	// registration itself did not collide.
	_ = families
}

func TestGlobalHelpers(t *testing.T) {
	RecordBatch("overall", 0.42)
	RecordPlayerScored()
	RecordPlayerDropped()
	RecordContextFallback()
	RecordContextCacheHit()
	RecordContextCacheMiss()
	RecordOverviewCacheHit()
	RecordOverviewCacheMiss()
	RecordVerdict("2")
	RecordClauseInvestmentAdvised()

	families, err := Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected at least one metric family after recording")
	}
}

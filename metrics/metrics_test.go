package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(RecommendFallbacks.WithLabelValues("personalized", "popular"))
	RecommendFallbacks.WithLabelValues("personalized", "popular").Inc()
	after := testutil.ToFloat64(RecommendFallbacks.WithLabelValues("personalized", "popular"))
	if after != before+1 {
		t.Errorf("fallback counter = %v, want %v", after, before+1)
	}

	SnapshotItems.Set(5)
	if got := testutil.ToFloat64(SnapshotItems); got != 5 {
		t.Errorf("snapshot items = %v, want 5", got)
	}
}

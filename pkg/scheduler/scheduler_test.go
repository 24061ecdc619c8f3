package scheduler

import (
	"career_compass_backend/pkg/monitoring"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStats struct {
	counts map[string]int64
	err    error
}

func (f fakeStats) CountCompletedByType(context.Context) (map[string]int64, error) {
	return f.counts, f.err
}

func TestRefreshStatsSetsGauge(t *testing.T) {
	s := New(fakeStats{counts: map[string]int64{"Interest": 7}}, 0)
	s.RefreshStats()

	got := testutil.ToFloat64(monitoring.TestsCompleted.WithLabelValues("Interest"))
	if got != 7 {
		t.Fatalf("gauge: want=7 got=%v", got)
	}
}

func TestRefreshStatsKeepsGaugeOnError(t *testing.T) {
	monitoring.SetTestsCompleted("Value", 3)
	s := New(fakeStats{err: errors.New("db down")}, 0)
	s.RefreshStats()

	if got := testutil.ToFloat64(monitoring.TestsCompleted.WithLabelValues("Value")); got != 3 {
		t.Fatalf("gauge: want=3 got=%v", got)
	}
}

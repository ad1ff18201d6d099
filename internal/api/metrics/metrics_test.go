package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/doable/dashboard/internal/core/domain"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecordChange(t *testing.T) {
	events := ChangeEventsTotal.WithLabelValues("tasks", "insert")
	pending := CacheInvalidationsTotal.WithLabelValues("pendingTasksCount")
	before, beforeQ := counterValue(t, events), counterValue(t, pending)

	RecordChange(domain.ChangeEvent{Table: domain.TableTasks, Kind: domain.ChangeInsert}, []string{"tasks", "pendingTasksCount"})

	if got := counterValue(t, events); got != before+1 {
		t.Fatalf("change events: got %v want %v", got, before+1)
	}
	if got := counterValue(t, pending); got != beforeQ+1 {
		t.Fatalf("invalidations: got %v want %v", got, beforeQ+1)
	}
}

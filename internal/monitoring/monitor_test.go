package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMonitor_RecordStoreOp(t *testing.T) {
	m := NewMonitor()
	m.RecordStoreOp("orders", "get", time.Now(), nil)
	m.RecordStoreOp("orders", "get", time.Now(), nil)
	m.RecordStoreOp("orders", "set", time.Now(), errors.New("disk full"))

	if got := testutil.ToFloat64(m.storeOps.WithLabelValues("orders", "get", ResultOK)); got != 2 {
		t.Errorf("orders/get ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.storeOps.WithLabelValues("orders", "set", ResultError)); got != 1 {
		t.Errorf("orders/set error = %v, want 1", got)
	}
}

func TestMonitor_RecordMigrationStep(t *testing.T) {
	m := NewMonitor()
	m.RecordMigrationStep(1, 2, true)
	m.RecordMigrationStep(2, 3, false)
	m.RecordSchemaVersion(2)

	if got := testutil.ToFloat64(m.migrationSteps.WithLabelValues("1", "2", ResultOK)); got != 1 {
		t.Errorf("1->2 ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.migrationSteps.WithLabelValues("2", "3", ResultError)); got != 1 {
		t.Errorf("2->3 error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.schemaVersion); got != 2 {
		t.Errorf("schema version = %v, want 2", got)
	}
}

func TestMonitor_RecordAggregationAndDropped(t *testing.T) {
	m := NewMonitor()
	m.RecordAggregation("week", 12)
	m.RecordAggregation("week", 3)
	m.RecordDropped("orders", 2)
	m.RecordDropped("orders", 0)

	if got := testutil.ToFloat64(m.aggregations.WithLabelValues("week")); got != 2 {
		t.Errorf("week aggregations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ordersTallied); got != 15 {
		t.Errorf("orders tallied = %v, want 15", got)
	}
	if got := testutil.ToFloat64(m.droppedRecords.WithLabelValues("orders")); got != 2 {
		t.Errorf("dropped orders = %v, want 2", got)
	}
}

func TestMonitor_Registry(t *testing.T) {
	m := NewMonitor()
	m.RecordStoreOp("drinks", "get", time.Now(), nil)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"brewcart_store_operations_total", "brewcart_uptime_seconds"} {
		if !names[want] {
			t.Errorf("expected %q in gathered metrics", want)
		}
	}
}

func TestMonitor_NilIsNoop(t *testing.T) {
	var m *Monitor
	m.RecordStoreOp("orders", "get", time.Now(), nil)
	m.RecordMigrationStep(1, 2, true)
	m.RecordSchemaVersion(3)
	m.RecordAggregation("today", 1)
	m.RecordDropped("orders", 1)
}

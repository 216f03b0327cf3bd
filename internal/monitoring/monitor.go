package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Monitor collects storage, migration and inventory metrics on its own
// registry so tests and the server never share global state.
type Monitor struct {
	registry *prometheus.Registry

	storeOps       *prometheus.CounterVec
	storeDuration  *prometheus.HistogramVec
	droppedRecords *prometheus.CounterVec
	migrationSteps *prometheus.CounterVec
	schemaVersion  prometheus.Gauge
	aggregations   *prometheus.CounterVec
	ordersTallied  prometheus.Counter
	startTime      time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brewcart_store_operations_total",
				Help: "Persistence operations by collection, operation and result",
			},
			[]string{"collection", "op", "result"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brewcart_store_operation_seconds",
				Help:    "Time taken by persistence operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .2, .5, 1},
			},
			[]string{"collection", "op"},
		),
		droppedRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brewcart_store_dropped_records_total",
				Help: "Stored records skipped on read because they failed validation",
			},
			[]string{"collection"},
		),
		migrationSteps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brewcart_migration_steps_total",
				Help: "Settings migration steps attempted",
			},
			[]string{"from", "to", "result"},
		),
		schemaVersion: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "brewcart_settings_schema_version",
				Help: "Schema version of the settings last loaded",
			},
		),
		aggregations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brewcart_inventory_aggregations_total",
				Help: "Inventory statistics computed, by date range",
			},
			[]string{"range"},
		),
		ordersTallied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "brewcart_inventory_orders_tallied_total",
				Help: "Orders folded into inventory statistics",
			},
		),
		startTime: time.Now(),
	}

	m.registry.MustRegister(
		m.storeOps,
		m.storeDuration,
		m.droppedRecords,
		m.migrationSteps,
		m.schemaVersion,
		m.aggregations,
		m.ordersTallied,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "brewcart_uptime_seconds",
				Help: "Seconds since the monitor was created",
			},
			func() float64 { return time.Since(m.startTime).Seconds() },
		),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// RecordStoreOp records one persistence operation.
func (m *Monitor) RecordStoreOp(collection, op string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.storeOps.WithLabelValues(collection, op, result).Inc()
	m.storeDuration.WithLabelValues(collection, op).Observe(time.Since(started).Seconds())
}

// RecordDropped records stored records that failed validation on read.
func (m *Monitor) RecordDropped(collection string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.droppedRecords.WithLabelValues(collection).Add(float64(n))
}

// RecordMigrationStep records the outcome of a single migration step.
func (m *Monitor) RecordMigrationStep(from, to int, success bool) {
	if m == nil {
		return
	}
	result := ResultOK
	if !success {
		result = ResultError
	}
	m.migrationSteps.WithLabelValues(strconv.Itoa(from), strconv.Itoa(to), result).Inc()
}

// RecordSchemaVersion records the schema version of loaded settings.
func (m *Monitor) RecordSchemaVersion(version int) {
	if m == nil {
		return
	}
	m.schemaVersion.Set(float64(version))
}

// RecordAggregation records an inventory statistics computation.
func (m *Monitor) RecordAggregation(dateRange string, orders int) {
	if m == nil {
		return
	}
	m.aggregations.WithLabelValues(dateRange).Inc()
	m.ordersTallied.Add(float64(orders))
}

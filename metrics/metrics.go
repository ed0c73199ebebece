// Package metrics exposes codec-level counters (bytes written/read,
// interning table sizes, schema-mismatch counts) as a Prometheus
// collector, in the same Describe/Collect shape the corpus uses for its
// own pebble.DB metrics (pebble_collector.go) — generalized here from
// passthrough database stats to a snapshot struct the facade fills in
// itself, since this codec has no underlying engine of its own to query.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Snapshot is the facade's self-reported counters at a point in time,
// returned by its Stats() method.
type Snapshot struct {
	BytesWritten uint64
	BytesRead    uint64

	TypeDescriptorsInterned  uint64
	ClassDescriptorsInterned uint64
	AttributesInterned       uint64
	ScriptStringsInterned    uint64
	SharedObjectsInterned    uint64

	SchemaMismatches uint64

	// AvgMessageBits is a running average of bits written per top-level
	// WriteValue/WriteObject/WriteAttribute call, for tracking how well
	// interning is amortizing descriptor overhead over a session.
	AvgMessageBits float64
}

// StatsFunc is called by Collect to obtain a fresh Snapshot each scrape.
type StatsFunc func() Snapshot

// Collector adapts a StatsFunc into a prometheus.Collector.
type Collector struct {
	stats StatsFunc

	bytesWritten             *prometheus.Desc
	bytesRead                *prometheus.Desc
	typeDescriptorsInterned  *prometheus.Desc
	classDescriptorsInterned *prometheus.Desc
	attributesInterned       *prometheus.Desc
	scriptStringsInterned    *prometheus.Desc
	sharedObjectsInterned    *prometheus.Desc
	schemaMismatches         *prometheus.Desc
	avgMessageBits           *prometheus.Desc
}

func NewCollector(stats StatsFunc) *Collector {
	return &Collector{
		stats: stats,
		bytesWritten: prometheus.NewDesc(
			"bitwire_bytes_written_total", "Total bytes written to the wire", nil, nil),
		bytesRead: prometheus.NewDesc(
			"bitwire_bytes_read_total", "Total bytes read from the wire", nil, nil),
		typeDescriptorsInterned: prometheus.NewDesc(
			"bitwire_type_descriptors_interned", "Type descriptors currently interned", nil, nil),
		classDescriptorsInterned: prometheus.NewDesc(
			"bitwire_class_descriptors_interned", "Class descriptors currently interned", nil, nil),
		attributesInterned: prometheus.NewDesc(
			"bitwire_attributes_interned", "Attribute values currently interned", nil, nil),
		scriptStringsInterned: prometheus.NewDesc(
			"bitwire_script_strings_interned", "Script strings currently interned", nil, nil),
		sharedObjectsInterned: prometheus.NewDesc(
			"bitwire_shared_objects_interned", "Shared objects currently tracked", nil, nil),
		schemaMismatches: prometheus.NewDesc(
			"bitwire_schema_mismatches_total", "Type/class descriptors that failed ExactMatch", nil, nil),
		avgMessageBits: prometheus.NewDesc(
			"bitwire_avg_message_bits", "Running average bits per top-level write call", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytesWritten
	ch <- c.bytesRead
	ch <- c.typeDescriptorsInterned
	ch <- c.classDescriptorsInterned
	ch <- c.attributesInterned
	ch <- c.scriptStringsInterned
	ch <- c.sharedObjectsInterned
	ch <- c.schemaMismatches
	ch <- c.avgMessageBits
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.bytesWritten, prometheus.CounterValue, float64(s.BytesWritten))
	ch <- prometheus.MustNewConstMetric(c.bytesRead, prometheus.CounterValue, float64(s.BytesRead))
	ch <- prometheus.MustNewConstMetric(c.typeDescriptorsInterned, prometheus.GaugeValue, float64(s.TypeDescriptorsInterned))
	ch <- prometheus.MustNewConstMetric(c.classDescriptorsInterned, prometheus.GaugeValue, float64(s.ClassDescriptorsInterned))
	ch <- prometheus.MustNewConstMetric(c.attributesInterned, prometheus.GaugeValue, float64(s.AttributesInterned))
	ch <- prometheus.MustNewConstMetric(c.scriptStringsInterned, prometheus.GaugeValue, float64(s.ScriptStringsInterned))
	ch <- prometheus.MustNewConstMetric(c.sharedObjectsInterned, prometheus.GaugeValue, float64(s.SharedObjectsInterned))
	ch <- prometheus.MustNewConstMetric(c.schemaMismatches, prometheus.CounterValue, float64(s.SchemaMismatches))
	ch <- prometheus.MustNewConstMetric(c.avgMessageBits, prometheus.GaugeValue, s.AvgMessageBits)
}

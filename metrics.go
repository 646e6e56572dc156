package tempusmark

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricPrefix is prepended to every metric name exported by Collector.
const MetricPrefix = "tempusmark_"

var capacityDesc = prometheus.NewDesc(
	MetricPrefix+"capacity",
	"Number of record slots preallocated by the measurer",
	[]string{"measurer"},
	nil,
)

var reservedDesc = prometheus.NewDesc(
	MetricPrefix+"reserved",
	"Number of record reservations issued, including rejected ones",
	[]string{"measurer"},
	nil,
)

var recordedDesc = prometheus.NewDesc(
	MetricPrefix+"recorded",
	"Number of records written",
	[]string{"measurer"},
	nil,
)

var overflowsDesc = prometheus.NewDesc(
	MetricPrefix+"overflows_total",
	"Number of records rejected because the measurer was full",
	[]string{"measurer"},
	nil,
)

// Collector exposes the occupancy of named measurers to Prometheus.
type Collector struct {
	mu      sync.RWMutex
	sources map[string]StatsSource
}

// NewCollector returns a Collector with no sources.
func NewCollector() *Collector {
	return &Collector{sources: map[string]StatsSource{}}
}

// Add registers src under name, replacing any source with the same name.
func (c *Collector) Add(name string, src StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = src
}

func (c *Collector) Describe(desc chan<- *prometheus.Desc) {
	desc <- capacityDesc
	desc <- reservedDesc
	desc <- recordedDesc
	desc <- overflowsDesc
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name, src := range c.sources {
		s := src.Stats()
		metrics <- prometheus.MustNewConstMetric(capacityDesc, prometheus.GaugeValue, float64(s.Capacity), name)
		metrics <- prometheus.MustNewConstMetric(reservedDesc, prometheus.GaugeValue, float64(s.Reserved), name)
		metrics <- prometheus.MustNewConstMetric(recordedDesc, prometheus.GaugeValue, float64(s.Recorded), name)
		metrics <- prometheus.MustNewConstMetric(overflowsDesc, prometheus.CounterValue, float64(s.Overflows), name)
	}
}

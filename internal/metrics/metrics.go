package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scanning metrics
	Checkpoint = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ownerscan_checkpoint_block",
			Help: "Next block to scan per network",
		},
		[]string{"network"},
	)

	TargetBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ownerscan_target_block",
			Help: "Last block of the current scan per network",
		},
		[]string{"network"},
	)

	WindowsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownerscan_windows_scanned_total",
			Help: "Total number of block windows scanned",
		},
		[]string{"network"},
	)

	BlocksScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownerscan_blocks_scanned_total",
			Help: "Total number of blocks covered by scanned windows",
		},
		[]string{"network"},
	)

	DeploymentsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownerscan_deployments_found_total",
			Help: "Total number of decoded ProxyCreation events",
		},
		[]string{"network"},
	)

	OwnersInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownerscan_owners_inserted_total",
			Help: "Total number of newly stored owners",
		},
		[]string{"network"},
	)

	Skips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownerscan_skips_total",
			Help: "Total number of skipped windows, logs and deployments by reason",
		},
		[]string{"network", "reason"},
	)

	WindowProcessingTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ownerscan_window_duration_seconds",
			Help:    "Time taken to process one block window",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"network"},
	)

	ScanRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ownerscan_scan_rate_blocks_per_second",
			Help: "Current scan rate in blocks per second",
		},
		[]string{"network"},
	)

	// Run metrics
	NetworkHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ownerscan_network_health",
			Help: "Network task health (1=running or finished, 0=failed)",
		},
		[]string{"network"},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownerscan_errors_total",
			Help: "Total number of errors by component and severity",
		},
		[]string{"component", "severity"},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ownerscan_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ownerscan_goroutines",
			Help: "Number of active goroutines",
		},
	)

	MemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ownerscan_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func CheckpointSet(network string, block uint64) {
	Checkpoint.WithLabelValues(network).Set(float64(block))
}

func TargetBlockSet(network string, block uint64) {
	TargetBlock.WithLabelValues(network).Set(float64(block))
}

func WindowScanned(network string, blocks uint64, duration time.Duration) {
	WindowsScanned.WithLabelValues(network).Inc()
	BlocksScanned.WithLabelValues(network).Add(float64(blocks))
	WindowProcessingTime.WithLabelValues(network).Observe(duration.Seconds())

	if duration > 0 {
		ScanRate.WithLabelValues(network).Set(float64(blocks) / duration.Seconds())
	}
}

func DeploymentsFoundInc(network string, count int) {
	DeploymentsFound.WithLabelValues(network).Add(float64(count))
}

func OwnersInsertedInc(network string, count int) {
	OwnersInserted.WithLabelValues(network).Add(float64(count))
}

func SkipInc(network, reason string) {
	Skips.WithLabelValues(network, reason).Inc()
}

func ErrorInc(component, severity string) {
	Errors.WithLabelValues(component, severity).Inc()
}

func NetworkHealthSet(network string, healthy bool) {
	boolAsFloat := float64(1)
	if !healthy {
		boolAsFloat = 0
	}

	NetworkHealth.WithLabelValues(network).Set(boolAsFloat)
}

// UpdateSystemMetrics updates runtime system metrics.
// This should be called periodically (e.g., every 15 seconds).
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())

	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	MemoryUsage.WithLabelValues("total_alloc").Set(float64(m.TotalAlloc))
	MemoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	MemoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}

package cloudlogs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsDrainedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iot_logging_server_records_drained_total",
		Help: "Total number of records drained from the queue by the uploader",
	})

	RecordsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iot_logging_server_records_dropped_total",
		Help: "Total number of records rejected at ingress because the queue was full",
	})

	EventsUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iot_logging_server_events_uploaded_total",
		Help: "Total number of log events successfully uploaded",
	})

	BatchesFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iot_logging_server_batches_failed_total",
		Help: "Total number of upload batches dropped after an upload failure",
	})

	UploadCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iot_logging_server_upload_cycles_total",
		Help: "Total number of upload cycles completed",
	})

	UploadCycleDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "iot_logging_server_upload_cycle_duration_seconds",
		Help:    "Time spent in one drain-and-upload cycle in seconds",
		Buckets: prometheus.DefBuckets,
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "iot_logging_server_queue_depth",
		Help: "Current number of records waiting in the queue",
	})
)

// Package cloudlogs uploads queued log records to CloudWatch Logs: a thin
// retrying client over the three API operations the pipeline needs, and the
// background worker that drains the queue, groups records by destination and
// uploads them in batches.
package cloudlogs

import (
	"github.com/otaclient/iot-logging-server/pkg/bounded_queue"
)

// GroupType routes a record to the logs or the metrics log group.
type GroupType int

const (
	GroupTypeLog GroupType = iota
	GroupTypeMetrics
)

func (g GroupType) String() string {
	if g == GroupTypeMetrics {
		return "metrics"
	}
	return "log"
}

// LogMessage is one producer log line with its wall-clock millisecond
// timestamp.
type LogMessage struct {
	// TimestampMs is the producer's epoch milliseconds, server-assigned
	// when the producer sent none.
	TimestampMs int64
	Message     string
}

// Record is one queued entry: the message plus its destination key.
type Record struct {
	GroupType    GroupType
	StreamSuffix string
	Message      LogMessage
}

// Queue is the bounded MPSC queue between the ingress handlers and the
// uploader.
type Queue = bounded_queue.BoundedQueue[Record]

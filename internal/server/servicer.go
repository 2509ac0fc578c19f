// Package server is the ingress side of the logging pipeline: the shared
// admission logic, the HTTP and gRPC front ends, and the process lifecycle
// tying them to the uploader.
package server

import (
	"errors"
	"time"

	pb "github.com/otaclient/iot-logging-server/api/grpc/v1"
	"github.com/otaclient/iot-logging-server/internal/cloudlogs"
	"github.com/otaclient/iot-logging-server/internal/ecuinfo"
	"github.com/otaclient/iot-logging-server/pkg/bounded_queue"
	"github.com/sirupsen/logrus"
)

// Servicer holds the admission logic shared by both ingress protocols:
// validate, allow-list, timestamp, enqueue.
type Servicer struct {
	log         logrus.FieldLogger
	queue       *cloudlogs.Queue
	allowedECUs map[string]struct{} // nil disables filtering

	now func() time.Time
}

func NewServicer(log logrus.FieldLogger, queue *cloudlogs.Queue, info *ecuinfo.ECUInfo) *Servicer {
	s := &Servicer{
		log:   log,
		queue: queue,
		now:   time.Now,
	}
	if info != nil {
		s.allowedECUs = info.ECUIDSet()
		log.Infof("ecu allow-list enabled: %v", info.ECUIDSet())
	} else {
		log.Warn("no ecu info presented, ingress filtering is DISABLED")
	}
	return s
}

// PutLog validates and enqueues one producer message, returning the wire
// result code. A zero timestamp is replaced with the server's wall clock.
func (s *Servicer) PutLog(ecuID string, groupType cloudlogs.GroupType, timestampMs int64, message string) pb.ErrorCode {
	if message == "" {
		return pb.ErrorCode_NO_MESSAGE
	}
	if s.allowedECUs != nil {
		if _, ok := s.allowedECUs[ecuID]; !ok {
			return pb.ErrorCode_NOT_ALLOWED_ECU_ID
		}
	}

	if timestampMs == 0 {
		timestampMs = s.now().UnixMilli()
	}

	err := s.queue.TryPush(cloudlogs.Record{
		GroupType:    groupType,
		StreamSuffix: ecuID,
		Message: cloudlogs.LogMessage{
			TimestampMs: timestampMs,
			Message:     message,
		},
	})
	if err != nil {
		if errors.Is(err, bounded_queue.ErrFull) {
			cloudlogs.RecordsDroppedTotal.Inc()
			s.log.Debugf("message from %s dropped, queue is full", ecuID)
		}
		return pb.ErrorCode_SERVER_QUEUE_FULL
	}
	return pb.ErrorCode_NO_FAILURE
}

package cloudlogs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/otaclient/iot-logging-server/pkg/bounded_queue"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadedBatch struct {
	group    string
	stream   string
	messages []LogMessage
}

type fakeDestination struct {
	createGroupErr error
	putErr         error

	groups  []string
	batches []uploadedBatch
}

func (f *fakeDestination) CreateGroup(_ context.Context, group string) error {
	f.groups = append(f.groups, group)
	return f.createGroupErr
}

func (f *fakeDestination) PutEvents(_ context.Context, group, stream string, messages []LogMessage) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.batches = append(f.batches, uploadedBatch{group: group, stream: stream, messages: messages})
	return nil
}

func newTestUploader(dest *fakeDestination, queue *Queue, maxPerMerge int) *Uploader {
	return NewUploader(logrus.New(), dest, queue,
		"dev-edge-vehicle-one-Core",
		"/edge/logs", "/edge/logs-metrics",
		maxPerMerge, time.Hour)
}

func TestStreamName(t *testing.T) {
	at := time.Date(2024, 2, 14, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2024/02/14/dev-edge-vehicle-one-Core/main",
		StreamName("dev-edge-vehicle-one-Core", "main", at))

	// the date follows the upload instant in UTC
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2024/02/15/dev-edge-vehicle-one-Core/main",
		StreamName("dev-edge-vehicle-one-Core", "main", time.Date(2024, 2, 15, 8, 0, 0, 0, tokyo)))
}

func TestRun_EnsuresBothGroups(t *testing.T) {
	dest := &fakeDestination{}
	queue := bounded_queue.NewBoundedQueue[Record](8)
	u := newTestUploader(dest, queue, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, u.Run(ctx))

	assert.Equal(t, []string{"/edge/logs", "/edge/logs-metrics"}, dest.groups)
}

func TestRun_GroupCreateFailureIsFatal(t *testing.T) {
	dest := &fakeDestination{createGroupErr: errors.New("no permission")}
	queue := bounded_queue.NewBoundedQueue[Record](8)
	u := newTestUploader(dest, queue, 4)

	err := u.Run(context.Background())
	assert.ErrorContains(t, err, "creating log group")
}

func TestCycle_GroupsAndRoutes(t *testing.T) {
	dest := &fakeDestination{}
	queue := bounded_queue.NewBoundedQueue[Record](16)
	u := newTestUploader(dest, queue, 16)

	records := []Record{
		{GroupType: GroupTypeLog, StreamSuffix: "main", Message: LogMessage{TimestampMs: 1, Message: "a"}},
		{GroupType: GroupTypeMetrics, StreamSuffix: "main", Message: LogMessage{TimestampMs: 2, Message: "m1"}},
		{GroupType: GroupTypeLog, StreamSuffix: "sub1", Message: LogMessage{TimestampMs: 3, Message: "b"}},
		{GroupType: GroupTypeLog, StreamSuffix: "main", Message: LogMessage{TimestampMs: 4, Message: "c"}},
	}
	for _, r := range records {
		require.NoError(t, queue.TryPush(r))
	}

	u.cycle(context.Background())

	require.Len(t, dest.batches, 3)

	byKey := map[string]uploadedBatch{}
	for _, b := range dest.batches {
		byKey[b.group+"|"+b.stream] = b
	}

	date := time.Now().UTC().Format("2006/01/02")
	mainStream := fmt.Sprintf("%s/dev-edge-vehicle-one-Core/main", date)
	sub1Stream := fmt.Sprintf("%s/dev-edge-vehicle-one-Core/sub1", date)

	mainLogs, ok := byKey["/edge/logs|"+mainStream]
	require.True(t, ok)
	require.Len(t, mainLogs.messages, 2)
	// per-key insertion order survives grouping
	assert.Equal(t, "a", mainLogs.messages[0].Message)
	assert.Equal(t, "c", mainLogs.messages[1].Message)

	mainMetrics, ok := byKey["/edge/logs-metrics|"+mainStream]
	require.True(t, ok)
	require.Len(t, mainMetrics.messages, 1)
	assert.Equal(t, "m1", mainMetrics.messages[0].Message)

	_, ok = byKey["/edge/logs|"+sub1Stream]
	assert.True(t, ok)

	assert.Equal(t, 0, queue.Len())
}

func TestCycle_RespectsPerCycleCap(t *testing.T) {
	dest := &fakeDestination{}
	queue := bounded_queue.NewBoundedQueue[Record](1024)
	u := newTestUploader(dest, queue, 512)

	for i := 0; i < 1024; i++ {
		suffix := "main"
		if i%2 == 1 {
			suffix = "sub1"
		}
		require.NoError(t, queue.TryPush(Record{
			GroupType:    GroupTypeLog,
			StreamSuffix: suffix,
			Message:      LogMessage{TimestampMs: int64(i), Message: fmt.Sprintf("msg-%d", i)},
		}))
	}

	u.cycle(context.Background())

	// one put per (group, suffix) present, at most 512 events in total,
	// the rest still queued
	require.Len(t, dest.batches, 2)
	total := len(dest.batches[0].messages) + len(dest.batches[1].messages)
	assert.Equal(t, 512, total)
	assert.Equal(t, 512, queue.Len())
}

func TestCycle_UploadErrorDoesNotPropagate(t *testing.T) {
	dest := &fakeDestination{putErr: errors.New("throttled")}
	queue := bounded_queue.NewBoundedQueue[Record](8)
	u := newTestUploader(dest, queue, 8)

	require.NoError(t, queue.TryPush(Record{
		GroupType: GroupTypeLog, StreamSuffix: "main",
		Message: LogMessage{TimestampMs: 1, Message: "a"},
	}))

	// the failed batch is dropped, not re-queued
	u.cycle(context.Background())
	assert.Equal(t, 0, queue.Len())

	// and the worker keeps going afterwards
	dest.putErr = nil
	require.NoError(t, queue.TryPush(Record{
		GroupType: GroupTypeLog, StreamSuffix: "main",
		Message: LogMessage{TimestampMs: 2, Message: "b"},
	}))
	u.cycle(context.Background())
	require.Len(t, dest.batches, 1)
}

func TestCycle_EmptyQueueUploadsNothing(t *testing.T) {
	dest := &fakeDestination{}
	queue := bounded_queue.NewBoundedQueue[Record](8)
	u := newTestUploader(dest, queue, 8)

	u.cycle(context.Background())
	assert.Empty(t, dest.batches)
}

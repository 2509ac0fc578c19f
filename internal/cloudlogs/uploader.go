package cloudlogs

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Destination is the upload surface the worker needs; *Client satisfies it
// and tests substitute a fake.
type Destination interface {
	CreateGroup(ctx context.Context, group string) error
	PutEvents(ctx context.Context, group, stream string, messages []LogMessage) error
}

// StreamName composes the log stream name for an upload instant:
// YYYY/MM/DD/<thing_name>/<suffix>, date in UTC of the upload, not of the
// messages.
func StreamName(thingName, suffix string, t time.Time) string {
	return fmt.Sprintf("%s/%s/%s", t.UTC().Format("2006/01/02"), thingName, suffix)
}

// batchKey identifies one upload destination within a cycle.
type batchKey struct {
	groupType    GroupType
	streamSuffix string
}

// Uploader is the single long-running worker draining the queue and
// uploading grouped batches. Upload failures are logged and the batch
// dropped; the loop only exits with its context.
type Uploader struct {
	log          logrus.FieldLogger
	dest         Destination
	queue        *Queue
	thingName    string
	logGroup     string
	metricsGroup string
	maxPerCycle  int
	interval     time.Duration

	now func() time.Time
}

func NewUploader(
	log logrus.FieldLogger,
	dest Destination,
	queue *Queue,
	thingName, logGroup, metricsGroup string,
	maxLogsPerMerge int,
	interval time.Duration,
) *Uploader {
	return &Uploader{
		log:          log,
		dest:         dest,
		queue:        queue,
		thingName:    thingName,
		logGroup:     logGroup,
		metricsGroup: metricsGroup,
		// every stream in a cycle stays under the per-put ceiling
		// because the whole cycle does
		maxPerCycle: min(maxLogsPerMerge, MaxLogsPerPut),
		interval:    interval,
		now:         time.Now,
	}
}

// Run ensures both log groups exist, then drains and uploads until the
// context is cancelled. Group creation retries are the client's.
func (u *Uploader) Run(ctx context.Context) error {
	for _, group := range []string{u.logGroup, u.metricsGroup} {
		if err := u.dest.CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("creating log group %s: %w", group, err)
		}
	}

	u.log.Infof("uploader started, interval %s, max %d records per cycle", u.interval, u.maxPerCycle)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.log.Info("uploader stopping")
			return nil
		case <-ticker.C:
		}
		u.cycle(ctx)
	}
}

// cycle drains up to maxPerCycle records, groups them by destination
// preserving per-key order, and uploads one batch per destination. Errors
// never propagate out of a cycle.
func (u *Uploader) cycle(ctx context.Context) {
	start := u.now()
	defer func() {
		UploadCyclesTotal.Inc()
		UploadCycleDurationSeconds.Observe(time.Since(start).Seconds())
		QueueDepth.Set(float64(u.queue.Len()))
	}()

	batches := make(map[batchKey][]LogMessage)
	var order []batchKey

	drained := 0
	for drained < u.maxPerCycle {
		record, ok, err := u.queue.TryPop()
		if err != nil || !ok {
			break
		}
		drained++

		key := batchKey{groupType: record.GroupType, streamSuffix: record.StreamSuffix}
		if _, seen := batches[key]; !seen {
			order = append(order, key)
		}
		batches[key] = append(batches[key], record.Message)
	}
	if drained == 0 {
		return
	}
	RecordsDrainedTotal.Add(float64(drained))

	for _, key := range order {
		group := u.logGroup
		if key.groupType == GroupTypeMetrics {
			group = u.metricsGroup
		}
		stream := StreamName(u.thingName, key.streamSuffix, u.now())

		messages := batches[key]
		if err := u.dest.PutEvents(ctx, group, stream, messages); err != nil {
			BatchesFailedTotal.Inc()
			u.log.Errorf("dropping batch of %d events for %s@%s: %v", len(messages), stream, group, err)
			continue
		}
		EventsUploadedTotal.Add(float64(len(messages)))
	}
}

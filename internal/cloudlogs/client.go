package cloudlogs

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/otaclient/iot-logging-server/internal/awsiot"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	// MaxLogsPerPut is the PutLogEvents event-count ceiling imposed by the
	// remote API.
	MaxLogsPerPut = 10_000

	backoffFactor = 2 * time.Second
	backoffMax    = 32 * time.Second

	maxCreateAttempts = 16
	maxPutAttempts    = 6
)

// api is the slice of the CloudWatch Logs SDK client the pipeline uses;
// tests substitute a fake.
type api interface {
	CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// expBackoff implements the retry delay min(backoffMax, backoffFactor * 2^attempt).
type expBackoff struct{}

func (expBackoff) BackoffDelay(attempt int, _ error) (time.Duration, error) {
	if attempt > 4 {
		return backoffMax, nil
	}
	return min(backoffMax, backoffFactor*(1<<attempt)), nil
}

// newRetryer builds the SDK standard retryer with our backoff schedule. The
// defaults already retry transient transport errors and 5xx responses; the
// extra retryable admits the credential plane's own hint, so an mTLS or
// endpoint hiccup during credential refresh is retried here rather than
// failing the operation outright.
func newRetryer(maxAttempts int) aws.Retryer {
	return retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = maxAttempts
		o.Backoff = expBackoff{}
		o.MaxBackoff = backoffMax
		o.Retryables = append(o.Retryables, retry.IsErrorRetryableFunc(func(err error) aws.Ternary {
			var fetchErr *awsiot.FetchError
			if errors.As(err, &fetchErr) {
				return aws.BoolTernary(fetchErr.RetryableError())
			}
			return aws.UnknownTernary
		}))
	})
}

// Client wraps the three CloudWatch Logs operations with the pipeline's
// retry discipline. Creates are idempotent; a missing stream during
// PutEvents is created and the put retried once.
type Client struct {
	api api
	log logrus.FieldLogger

	createOpts []func(*cloudwatchlogs.Options)
	putOpts    []func(*cloudwatchlogs.Options)
}

// NewClient builds a client from an AWS config carrying the cached IoT
// credential provider.
func NewClient(awsConfig aws.Config, log logrus.FieldLogger) *Client {
	return newClient(cloudwatchlogs.NewFromConfig(awsConfig), log)
}

func newClient(a api, log logrus.FieldLogger) *Client {
	return &Client{
		api: a,
		log: log,
		createOpts: []func(*cloudwatchlogs.Options){
			func(o *cloudwatchlogs.Options) { o.Retryer = newRetryer(maxCreateAttempts) },
		},
		putOpts: []func(*cloudwatchlogs.Options){
			func(o *cloudwatchlogs.Options) { o.Retryer = newRetryer(maxPutAttempts) },
		},
	}
}

// CreateGroup creates a log group; an already existing group is success.
func (c *Client) CreateGroup(ctx context.Context, group string) error {
	_, err := c.api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(group),
	}, c.createOpts...)

	var exists *types.ResourceAlreadyExistsException
	if errors.As(err, &exists) {
		c.log.Debugf("log group %s already exists, skip creating", group)
		return nil
	}
	if err != nil {
		return err
	}
	c.log.Infof("log group %s has been created", group)
	return nil
}

// CreateStream creates a log stream; an already existing stream is success.
func (c *Client) CreateStream(ctx context.Context, group, stream string) error {
	_, err := c.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
	}, c.createOpts...)

	var exists *types.ResourceAlreadyExistsException
	if errors.As(err, &exists) {
		c.log.Debugf("log stream %s@%s already exists, skip creating", stream, group)
		return nil
	}
	if err != nil {
		return err
	}
	c.log.Infof("log stream %s@%s has been created", stream, group)
	return nil
}

// PutEvents uploads one batch of messages, preserving their order. When the
// stream does not exist yet it is created and the put retried once within
// the same call. Sequence tokens are ignored by the remote API and not
// tracked.
func (c *Client) PutEvents(ctx context.Context, group, stream string, messages []LogMessage) error {
	input := &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
		LogEvents: lo.Map(messages, func(m LogMessage, _ int) types.InputLogEvent {
			return types.InputLogEvent{
				Timestamp: aws.Int64(m.TimestampMs),
				Message:   aws.String(m.Message),
			}
		}),
	}

	_, err := c.api.PutLogEvents(ctx, input, c.putOpts...)

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		c.log.Debugf("log stream %s@%s not found, creating", stream, group)
		if err := c.CreateStream(ctx, group, stream); err != nil {
			return err
		}
		_, err = c.api.PutLogEvents(ctx, input, c.putOpts...)
	}
	return err
}

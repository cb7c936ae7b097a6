package tracking

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/otel/logger"
	"github.com/octabyte/bm-talentportal/otel/metrics"
	"github.com/octabyte/bm-talentportal/queue"
	"github.com/octabyte/bm-talentportal/utils"
	"github.com/octabyte/bm-talentportal/validation"
)

const (
	ModeDirect = "direct"
	ModeQueued = "queued"
	ModeStream = "stream"

	defaultTimeout = 5 * time.Second
	maxParamLength = 254
)

// Tracker records a click without delaying the caller. Failures are logged
// and counted, never returned.
type Tracker interface {
	Track(ctx context.Context, click models.ClickEvent)
}

// ClickSender delivers a click to the backend.
type ClickSender interface {
	TrackClick(ctx context.Context, click models.ClickEvent) error
}

// NewClick builds the event for a scheduling link visit. At least one of
// email and name must be present.
func NewClick(email, name string, now time.Time) (models.ClickEvent, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" && name == "" {
		return models.ClickEvent{}, validation.FieldError("email", "email or name is required")
	}
	if len(email) > maxParamLength {
		return models.ClickEvent{}, validation.FieldError("email", "is too long")
	}
	if len(name) > maxParamLength {
		return models.ClickEvent{}, validation.FieldError("name", "is too long")
	}

	return models.ClickEvent{Email: email, Name: name, ClickedAt: now.UTC()}, nil
}

// Destination adds the visitor's email and name to the scheduling URL so
// the booking form comes prefilled.
func Destination(schedulingURL string, click models.ClickEvent) string {
	u, err := url.Parse(schedulingURL)
	if err != nil {
		return schedulingURL
	}
	q := u.Query()
	if click.Email != "" {
		q.Set("email", click.Email)
	}
	if click.Name != "" {
		q.Set("name", click.Name)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DirectTracker sends the click to the backend from a detached goroutine.
type DirectTracker struct {
	sender  ClickSender
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDirectTracker(sender ClickSender, timeout time.Duration) *DirectTracker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &DirectTracker{sender: sender, timeout: timeout}
}

func (t *DirectTracker) Track(ctx context.Context, click models.ClickEvent) {
	detached := context.WithoutCancel(ctx)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(detached, t.timeout)
		defer cancel()

		err := t.sender.TrackClick(ctx, click)
		metrics.RecordLinkClick(ctx, ModeDirect, err == nil)
		if err != nil {
			logger.ErrorCtx(ctx, "tracking: send click", err, zap.String("email", click.Email))
		}
	}()
}

// Wait blocks until in-flight clicks are sent. Called on shutdown.
func (t *DirectTracker) Wait() {
	t.wg.Wait()
}

// QueuedTracker publishes clicks for the Worker to deliver with retries.
// Publishing runs in the background so a slow broker never holds the
// redirect.
type QueuedTracker struct {
	publisher queue.Publisher
	timeout   time.Duration
	mode      string
	wg        sync.WaitGroup
}

func NewQueuedTracker(publisher queue.Publisher, timeout time.Duration) *QueuedTracker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &QueuedTracker{publisher: publisher, timeout: timeout, mode: ModeQueued}
}

// NewStreamTracker appends clicks to a RabbitMQ stream for analytics
// consumers. Nothing in the portal reads the stream back.
func NewStreamTracker(publisher queue.Publisher, timeout time.Duration) *QueuedTracker {
	t := NewQueuedTracker(publisher, timeout)
	t.mode = ModeStream
	return t
}

func (t *QueuedTracker) Track(ctx context.Context, click models.ClickEvent) {
	detached := context.WithoutCancel(ctx)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(detached, t.timeout)
		defer cancel()

		body, err := utils.StructToBytes(click)
		if err == nil {
			err = t.publisher.Publish(ctx, body)
		}
		metrics.RecordLinkClick(ctx, t.mode, err == nil)
		if err != nil {
			logger.ErrorCtx(ctx, "tracking: publish click", err, zap.String("mode", t.mode), zap.String("email", click.Email))
		}
	}()
}

// Wait blocks until in-flight publishes finish.
func (t *QueuedTracker) Wait() {
	t.wg.Wait()
}

// Close waits for in-flight publishes, then closes the publisher.
func (t *QueuedTracker) Close() error {
	t.wg.Wait()
	return t.publisher.Close()
}

// Multi sends every click to each tracker in order.
type Multi []Tracker

func (m Multi) Track(ctx context.Context, click models.ClickEvent) {
	for _, t := range m {
		t.Track(ctx, click)
	}
}

package tracking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/otel/logger"
	"github.com/octabyte/bm-talentportal/queue"
	"github.com/octabyte/bm-talentportal/utils"
)

// Worker drains the click queue into the backend. Failed deliveries are
// retried by the consumer and end up in the dead letter queue.
type Worker struct {
	consumer queue.ConsumerWithRetry
	sender   ClickSender
}

func NewWorker(consumer queue.ConsumerWithRetry, sender ClickSender) *Worker {
	return &Worker{consumer: consumer, sender: sender}
}

// Run blocks until ctx is cancelled or the broker closes the channel.
func (w *Worker) Run(ctx context.Context) error {
	err := w.consumer.Consume(ctx, w.Handle)
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var click models.ClickEvent
	if err := utils.BytesToStruct(body, &click); err != nil {
		return fmt.Errorf("decode click: %w", err)
	}

	if err := w.sender.TrackClick(ctx, click); err != nil {
		return fmt.Errorf("send click: %w", err)
	}

	logger.DebugCtx(ctx, "tracking: click delivered", zap.String("email", click.Email), zap.String("name", click.Name))
	return nil
}

func (w *Worker) Close() error {
	return w.consumer.Close()
}

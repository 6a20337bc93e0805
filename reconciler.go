package main

import (
	"context"

	"github.com/rs/zerolog/log"
)

const DefaultRequeueBatch = 10

// requeueBatchSize returns the batch a single pass can actually drain. SQS
// returns at most maxReceiveBatch messages per receive and a pass receives
// once, so larger values are clamped with a warning.
func requeueBatchSize(configured int) int32 {
	if configured <= 0 {
		return DefaultRequeueBatch
	}
	if configured > maxReceiveBatch {
		log.Warn().
			Int("max_messages", configured).
			Int("sqs_limit", maxReceiveBatch).
			Msg("MAX_MESSAGES is above the SQS receive limit, each pass requeues at most the limit")
		return maxReceiveBatch
	}
	return int32(configured)
}

type RequeueSummary struct {
	Received int
	Requeued int
	Failed   int
}

// Reconciler moves messages from the dead-letter queue back onto the main
// queue.
//
// Each message is sent to the main queue and then deleted from the DLQ. The
// two calls are not atomic: a crash or a failed delete after a successful
// send leaves the original in the DLQ, so a later pass sends it again and
// the main queue sees a duplicate. Processing is idempotent per key so this
// is tolerated.
type Reconciler struct {
	queue        QueueClient
	mainQueueURL string
	dlqURL       string
	batchSize    int32
}

func NewReconciler(queue QueueClient, mainQueueURL, dlqURL string, batchSize int32) *Reconciler {
	if batchSize <= 0 {
		batchSize = DefaultRequeueBatch
	}
	return &Reconciler{
		queue:        queue,
		mainQueueURL: mainQueueURL,
		dlqURL:       dlqURL,
		batchSize:    batchSize,
	}
}

// Requeue makes a single pass over whatever is in the DLQ right now. Only a
// failure to receive from the DLQ is returned, per message failures are
// logged and counted.
func (r *Reconciler) Requeue(ctx context.Context) (RequeueSummary, error) {
	var summary RequeueSummary

	messages, err := r.queue.Receive(ctx, r.dlqURL, r.batchSize, 0)
	if err != nil {
		return summary, err
	}
	summary.Received = len(messages)

	if len(messages) == 0 {
		log.Info().Str("dlq_url", r.dlqURL).Msg("No messages in DLQ")
		return summary, nil
	}

	for _, msg := range messages {
		ml := log.With().Str("message_id", msg.ID).Logger()
		ml.Info().Msg("Requeuing message")

		if err := r.queue.Send(ctx, r.mainQueueURL, msg.Body); err != nil {
			ml.Error().Err(err).Msg("Failed to requeue message, leaving it in the DLQ")
			summary.Failed++
			continue
		}

		if err := r.queue.Delete(ctx, r.dlqURL, msg.LeaseToken); err != nil {
			// already sent, a later pass will send it again
			ml.Error().Err(err).Msg("Failed to delete requeued message from DLQ")
			summary.Failed++
			continue
		}
		summary.Requeued++
	}

	log.Info().
		Int("received", summary.Received).
		Int("requeued", summary.Requeued).
		Int("failed", summary.Failed).
		Msg("DLQ requeue complete")

	return summary, nil
}

package main

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const notificationSubject = "File Processed"

// FileProcessor runs a single processing attempt for one message. It does
// not retry, redelivery by the queue is the retry policy.
type FileProcessor struct {
	store    ObjectStore
	sink     ResultSink
	notifier Notifier
	now      func() time.Time
	quiet    bool
}

func NewFileProcessor(store ObjectStore, sink ResultSink, notifier Notifier, quiet bool) *FileProcessor {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &FileProcessor{
		store:    store,
		sink:     sink,
		notifier: notifier,
		now:      time.Now,
		quiet:    quiet,
	}
}

// Process resolves the object a message refers to, inspects it and records
// the result. The returned error is a *MissingKeyError, *FetchError or
// *PersistError.
func (fp *FileProcessor) Process(ctx context.Context, msg Message) (ProcessingResult, error) {
	key, err := resolveKey(msg.Body)
	if err != nil {
		return ProcessingResult{}, err
	}

	fl := log.With().Str("message_id", msg.ID).Str("key", key).Logger()
	fl.Debug().Msg("Processing object")

	content, err := fp.store.Fetch(ctx, key)
	if err != nil {
		return ProcessingResult{}, &FetchError{Key: key, Err: err}
	}

	result := inspect(content)

	err = fp.sink.Put(ctx, ResultRecord{
		Key:         key,
		ProcessedAt: fp.now().Unix(),
		Status:      StatusSuccess,
		Result:      &result,
	})
	if err != nil {
		return ProcessingResult{}, &PersistError{Key: key, Err: err}
	}

	if fp.quiet {
		fl.Debug().Int64("lines", result.Lines).Int64("size_bytes", result.SizeBytes).Msg("Stored result")
	} else {
		fl.Info().Int64("lines", result.Lines).Int64("size_bytes", result.SizeBytes).Msg("Stored result")
	}

	if err := fp.notifier.Publish(ctx, notificationSubject, "File processed successfully: "+key); err != nil {
		fl.Warn().Err(err).Msg("Failed to send notification")
	}

	return result, nil
}

func inspect(content []byte) ProcessingResult {
	return ProcessingResult{
		Lines:     int64(bytes.Count(content, []byte{'\n'})),
		SizeBytes: int64(len(content)),
	}
}

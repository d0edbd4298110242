package main

import (
	"context"
	"time"

	"github.com/Dynom/mxprobe/batch"
	"github.com/Dynom/mxprobe/cmd/web/mxhttp/handlers"
	"github.com/Dynom/mxprobe/cmd/web/persist"
	"github.com/Dynom/mxprobe/cmd/web/pubsub"
	"github.com/Dynom/mxprobe/validator"
	"github.com/sirupsen/logrus"
)

const sinkTimeout = 5 * time.Second

type publisher interface {
	Publish(ctx context.Context, data pubsub.Data) error
}

// resultPersistSink archives every completed result. Failures are logged, they never affect a verdict.
func resultPersistSink(storage persist.Persister, recorder *persist.Recorder, logger logrus.FieldLogger) batch.ProgressFn {
	logger = logger.WithField("sink", "persist")
	return func(ctx context.Context, r validator.Result, _, _ int) {
		log := logger.WithField(handlers.RequestID.String(), handlers.GetRequestID(ctx))

		rec, err := recorder.Record(r)
		if err != nil {
			log.WithError(err).Debug("Not persisting a result without a well-formed address")
			return
		}

		// The batch context might be done, archiving shouldn't depend on that
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
		defer cancel()

		err = storage.Store(sctx, rec)
		if err != nil {
			log.WithFields(logrus.Fields{
				"error":  err,
				"domain": rec.Domain,
			}).Error("Failed to persist value")
			return
		}

		log.WithFields(logrus.Fields{
			"domain": rec.Domain,
			"valid":  rec.Valid,
			"kind":   rec.Kind.String(),
		}).Debug("Persisted result")
	}
}

// resultNotifySink publishes every completed result
func resultNotifySink(svc publisher, recorder *persist.Recorder, logger logrus.FieldLogger) batch.ProgressFn {
	logger = logger.WithField("sink", "notification_publisher")
	return func(ctx context.Context, r validator.Result, _, _ int) {
		log := logger.WithField(handlers.RequestID.String(), handlers.GetRequestID(ctx))

		rec, err := recorder.Record(r)
		if err != nil {
			return
		}

		data := pubsub.Data{
			Domain:    rec.Domain,
			Recipient: rec.Recipient,
			Valid:     rec.Valid,
			Kind:      rec.Kind,
			Code:      rec.Code,
			MXHost:    rec.MXHost,
		}

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
		defer cancel()

		err = svc.Publish(sctx, data)
		if err != nil {
			log.WithFields(logrus.Fields{
				"error": err,
				"data":  data,
			}).Error("Publishing failed")
		}
	}
}

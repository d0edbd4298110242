package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	gcppubsub "cloud.google.com/go/pubsub"
	"github.com/Dynom/mxprobe/cmd/web/mxhttp/handlers"
	"github.com/Dynom/mxprobe/cmd/web/pubsub"
	"github.com/sirupsen/logrus"
)

const senderPrefix = "mxprobe"

var (
	ErrMissingClient = errors.New("client not defined")
	ErrTopicNotFound = errors.New("topic not found")
)

func NewPubSubSvc(logger logrus.FieldLogger, client *gcppubsub.Client, topicName string, options ...Option) *PubSubSvc {
	if logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		logger = l
	}

	svc := PubSubSvc{
		logger:    logger,
		client:    client,
		topicName: topicName,
	}

	for _, o := range options {
		o(&svc)
	}

	labels := svc.senderLabels
	svc.senderLabels = make([]string, 0, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		svc.senderLabels = append(svc.senderLabels, l)
	}

	return &svc
}

// PubSubSvc publishes completed checks to a Google Cloud Pub/Sub topic
type PubSubSvc struct {
	logger       logrus.FieldLogger
	client       *gcppubsub.Client
	topicName    string
	topicLock    sync.Mutex
	topic        Topic
	senderLabels []string
}

// Close flushes pending messages and closes the client
func (svc *PubSubSvc) Close() error {
	if svc.client == nil {
		return ErrMissingClient
	}

	svc.topicLock.Lock()
	if svc.topic != nil {
		svc.topic.Stop()
	}
	svc.topicLock.Unlock()

	err := svc.client.Close()
	if err != nil {
		svc.logger.WithError(err).Warn("Failed to close pub/sub client")
	}

	return err
}

func (svc *PubSubSvc) getSenderID() string {
	return strings.Join(append([]string{senderPrefix}, svc.senderLabels...), `-`)
}

// Publish publishes data and blocks until the server acknowledged it, or ctx is done
func (svc *PubSubSvc) Publish(ctx context.Context, data pubsub.Data) error {
	logger := svc.logger.WithFields(logrus.Fields{
		handlers.RequestID.String(): handlers.GetRequestID(ctx),
	})

	notification := pubsub.Notification{
		SenderID: svc.getSenderID(),
		Data:     data,
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":        err,
			"notification": notification,
		}).Error("Failed to marshal notification")
		return err
	}

	topic, err := svc.getTopic(ctx)
	if err != nil {
		return err
	}

	pr := topic.Publish(ctx, &gcppubsub.Message{
		Data: payload,
	})

	_, err = pr.Get(ctx)
	return err
}

// getTopic returns the topic, after verifying it exists. Multiple calls to getTopic will return the same topic
func (svc *PubSubSvc) getTopic(ctx context.Context) (Topic, error) {
	svc.topicLock.Lock()
	defer svc.topicLock.Unlock()

	if svc.topic != nil {
		return svc.topic, nil
	}

	if svc.client == nil {
		return nil, ErrMissingClient
	}

	topic := svc.client.Topic(svc.topicName)
	ok, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrTopicNotFound, svc.topicName)
	}

	svc.topic = topic

	return svc.topic, nil
}

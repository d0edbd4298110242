package gcp

import (
	"context"

	gcppubsub "cloud.google.com/go/pubsub"
)

// Topic is the part of *pubsub.Topic used for publishing
type Topic interface {
	Exists(ctx context.Context) (bool, error)
	Publish(ctx context.Context, msg *gcppubsub.Message) *gcppubsub.PublishResult
	Stop()
}

package gcp

type Option func(svc *PubSubSvc)

// WithSenderLabels adds labels to the sender ID, to tell instances apart
func WithSenderLabels(labels []string) Option {
	return func(svc *PubSubSvc) {
		svc.senderLabels = labels
	}
}

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/Dynom/mxprobe/cmd/web/persist"
	"github.com/Dynom/mxprobe/cmd/web/pubsub"
	"github.com/Dynom/mxprobe/testutil"
	"github.com/Dynom/mxprobe/validator"
	"github.com/sirupsen/logrus"
	testLog "github.com/sirupsen/logrus/hooks/test"
)

type publisherStub struct {
	published []pubsub.Data
	err       error
}

func (p *publisherStub) Publish(_ context.Context, data pubsub.Data) error {
	p.published = append(p.published, data)
	return p.err
}

type failingPersister struct {
	persist.Persister
}

func (failingPersister) Store(context.Context, persist.Record) error {
	return errors.New("disk full")
}

func Test_resultNotifySink(t *testing.T) {
	logger, hook := testLog.NewNullLogger()
	recorder := persist.NewRecorder(&testutil.MockHasher{})

	stub := &publisherStub{}
	sink := resultNotifySink(stub, recorder, logger)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	sink(cancelled, validator.Result{Address: "ok@good.com", Valid: true, Code: 250, MXHost: "mx.good.com"}, 1, 2)
	sink(context.Background(), validator.Result{Address: "broken"}, 2, 2)

	if len(stub.published) != 1 {
		t.Fatalf("Expected a single publication, got %d", len(stub.published))
	}

	if got := stub.published[0]; got.Domain != "good.com" || string(got.Recipient) != "ok" || !got.Valid || got.Code != 250 {
		t.Errorf("Unexpected publication %+v", got)
	}

	stub.err = errors.New("unavailable")
	sink(context.Background(), validator.Result{Address: "ok@good.com"}, 1, 1)

	if le := hook.LastEntry(); le == nil || le.Level != logrus.ErrorLevel {
		t.Errorf("Expected the failure to be logged")
	}
}

func Test_resultPersistSink(t *testing.T) {
	logger, hook := testLog.NewNullLogger()
	recorder := persist.NewRecorder(&testutil.MockHasher{})

	sink := resultPersistSink(failingPersister{}, recorder, logger)
	sink(context.Background(), validator.Result{Address: "ok@good.com", Valid: true}, 1, 1)

	if le := hook.LastEntry(); le == nil || le.Message != "Failed to persist value" {
		t.Errorf("Expected the failure to be logged, got %+v", le)
	}
}

package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	gcppubsub "cloud.google.com/go/pubsub"
	"github.com/Dynom/mxprobe/batch"
	"github.com/Dynom/mxprobe/cmd/web/config"
	"github.com/Dynom/mxprobe/cmd/web/mxhttp/handlers"
	"github.com/Dynom/mxprobe/cmd/web/persist"
	"github.com/Dynom/mxprobe/cmd/web/pubsub/gcp"
	"github.com/Dynom/mxprobe/cmd/web/services"
	"github.com/Dynom/mxprobe/metrics"
	"github.com/graphql-go/handler"
	"github.com/juju/ratelimit"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var ErrMissingHashKey = errors.New("server.hash.key is required with the postgres backend")

type registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// app holds the wired services of the web server
type app struct {
	mux      *http.ServeMux
	checkSvc *services.CheckSvc
	storage  persist.Persister
	closers  []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}

	return errors.Join(errs...)
}

// newApp wires checker into the batch orchestrator, the result sinks and the HTTP routes
func newApp(ctx context.Context, conf config.Config, logger logrus.FieldLogger, reg registry, checker batch.Checker) (*app, error) {
	a := &app{
		mux: http.NewServeMux(),
	}

	options := []batch.Option{
		batch.WithWorkers(conf.Probe.Workers),
		batch.WithRetries(conf.Probe.Retries, conf.Probe.Backoff.AsDuration()),
		batch.WithLogger(logger),
		batch.WithProgress(metrics.New(reg).Progress),
	}

	recorder, err := newRecorder(conf, logger)
	if err != nil {
		return nil, err
	}

	a.storage, err = newPersister(ctx, conf, logger)
	if err != nil {
		return nil, err
	}

	a.closers = append(a.closers, a.storage)
	options = append(options, batch.WithProgress(resultPersistSink(a.storage, recorder, logger)))

	if conf.GCP.PubSubTopic != "" {
		svc, err := newPubSubSvc(ctx, conf, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}

		a.closers = append(a.closers, svc)
		options = append(options, batch.WithProgress(resultNotifySink(svc, recorder, logger)))
	}

	a.checkSvc = services.NewCheckService(batch.New(checker, options...), conf.Client.BatchSizeMax, logger)

	schema, err := NewGraphQLSchema(a.checkSvc)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("unable to build the GraphQL schema %w", err)
	}

	a.mux.HandleFunc("/check", NewCheckHandler(logger, a.checkSvc, conf.Client.InputLengthMax))
	a.mux.HandleFunc("/batch", NewBatchHandler(logger, a.checkSvc, conf.Client.InputLengthMax))
	a.mux.HandleFunc("/health", NewHealthHandler(logger))
	a.mux.Handle("/graphql", handler.New(&handler.Config{
		Schema:     &schema,
		Pretty:     conf.Server.GraphQL.PrettyOutput,
		GraphiQL:   conf.Server.GraphQL.GraphiQL,
		Playground: conf.Server.GraphQL.Playground,
	}))
	a.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	if conf.Server.Profiler.Enable {
		configureProfiler(a.mux, conf)
	}

	return a, nil
}

// middlewares returns the handlers wrapping the mux, innermost first
func middlewares(conf config.Config, logger logrus.FieldLogger) []func(h http.Handler) http.Handler {
	var bucket handlers.TakeMaxDuration
	if rl := conf.Server.RateLimiter; rl.Rate > 0 {
		capacity := int64(rl.Capacity)
		if capacity < 1 {
			capacity = int64(rl.Rate)
		}

		bucket = ratelimit.NewBucketWithRate(float64(rl.Rate), capacity)
	}

	mw := []func(h http.Handler) http.Handler{
		handlers.WithGzipHandler(),
		handlers.WithHeaders(sliceToHTTPHeaders(conf.Server.Headers)),
		handlers.WithCORS(logger, conf.Server.CORS.AllowedOrigins, conf.Server.CORS.AllowedHeaders),
		handlers.WithRateLimiter(logger, bucket, conf.Server.RateLimiter.ParkedTTL.AsDuration()),
		handlers.WithRequestLogger(logger),
	}

	if conf.Server.PathStrip != "" {
		mw = append(mw, handlers.WithPathStrip(logger, conf.Server.PathStrip))
	}

	return mw
}

func newRecorder(conf config.Config, logger logrus.FieldLogger) (*persist.Recorder, error) {
	key := conf.Server.Hash.Key
	if key == "" {
		if conf.Backend.Driver == config.BackendPostgres {
			return nil, ErrMissingHashKey
		}

		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			return nil, err
		}

		key = hex.EncodeToString(b)
		logger.Info("No hash key configured, using a random key for this run")
	}

	h, err := persist.NewHighwayHasher(key)
	if err != nil {
		return nil, err
	}

	return persist.NewRecorder(h), nil
}

func newPersister(ctx context.Context, conf config.Config, logger logrus.FieldLogger) (persist.Persister, error) {
	if conf.Backend.Driver != config.BackendPostgres {
		return persist.NewMemory(), nil
	}

	db, err := sql.Open("postgres", conf.Backend.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to open the backend %w", err)
	}

	if conf.Backend.MaxConnections > 0 {
		db.SetMaxOpenConns(int(conf.Backend.MaxConnections))
	}

	p := persist.NewPostgres(db, logger.WithField("backend", "postgres"))
	if err := p.EnsureSchema(ctx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("unable to prepare the backend %w", err)
	}

	return p, nil
}

func newPubSubSvc(ctx context.Context, conf config.Config, logger logrus.FieldLogger) (*gcp.PubSubSvc, error) {
	var opts []option.ClientOption
	if conf.GCP.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.GCP.CredentialsFile))
	}

	client, err := gcppubsub.NewClient(ctx, conf.GCP.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create the pub/sub client %w", err)
	}

	hostname, _ := os.Hostname()

	return gcp.NewPubSubSvc(logger.WithField("svc", "pubsub"), client, conf.GCP.PubSubTopic, gcp.WithSenderLabels([]string{hostname})), nil
}

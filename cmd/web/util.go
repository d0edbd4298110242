package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/Dynom/mxprobe/cmd/web/config"
	"github.com/Dynom/mxprobe/cmd/web/mxhttp"
	"github.com/Dynom/mxprobe/validator"
	"github.com/sirupsen/logrus"
)

func sliceToHTTPHeaders(headers config.Headers) http.Header {
	h := http.Header{}
	for name, value := range headers {
		h.Add(name, value)
	}

	return h
}

func newLogger(conf config.Config) (*logrus.Logger, error) {
	var err error
	logger := logrus.New()
	logger.Out = os.Stdout

	switch conf.Server.Log.Format {
	case config.LFJSON:
		logger.Formatter = &logrus.JSONFormatter{}
	default:
		logger.Formatter = &logrus.TextFormatter{}
	}

	logger.Level, err = logrus.ParseLevel(conf.Server.Log.Level)

	return logger, err
}

func configureProfiler(mux *http.ServeMux, conf config.Config) {
	var prefix string
	if conf.Server.Profiler.Prefix != "" {
		prefix = conf.Server.Profiler.Prefix
	} else {
		prefix = "debug"
	}

	mux.HandleFunc(`/`+prefix+`/pprof/`, pprof.Index)
	mux.HandleFunc(`/`+prefix+`/pprof/cmdline`, pprof.Cmdline)
	mux.HandleFunc(`/`+prefix+`/pprof/profile`, pprof.Profile)
	mux.HandleFunc(`/`+prefix+`/pprof/symbol`, pprof.Symbol)
	mux.HandleFunc(`/`+prefix+`/pprof/trace`, pprof.Trace)
}

// newValidator builds the validator from the probe section
func newValidator(conf config.Config, logger logrus.FieldLogger) (*validator.EmailValidator, error) {
	timeout := conf.Probe.Timeout.AsDuration()

	var proberOptions = []validator.ProberOption{
		validator.WithSender(conf.Probe.Sender),
		validator.WithHelo(conf.Probe.Helo),
		validator.WithPort(conf.Probe.Port),
		validator.WithProbeTimeout(timeout),
	}

	if p := conf.Probe.Proxy; p.Address != "" {
		d, err := validator.NewProxyDialer(p.Address, p.User, p.Password, &net.Dialer{Timeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("unable to configure proxy %w", err)
		}

		proberOptions = append(proberOptions, validator.WithDialer(d))
	}

	var lookup validator.LookupMX
	if conf.Probe.Resolver != "" {
		resolverTimeout := timeout
		if resolverTimeout <= 0 || resolverTimeout > 5*time.Second {
			resolverTimeout = 5 * time.Second
		}

		lookup = validator.NewDNSClient(conf.Probe.Resolver, resolverTimeout)
	}

	return validator.NewEmailAddressValidator(
		validator.WithResolver(validator.NewMXResolver(lookup)),
		validator.WithProber(validator.NewSMTPProber(proberOptions...)),
		validator.WithLogger(logger),
	), nil
}

func deferClose(toClose io.Closer, log logrus.FieldLogger) {
	if toClose == nil {
		return
	}

	err := toClose.Close()
	if err != nil {
		if log == nil {
			fmt.Printf("error failed to close handle %s", err)
			return
		}

		log.WithError(err).Error("Failed to close handle")
	}
}

func writeErrorJSONResponse(logger logrus.FieldLogger, w http.ResponseWriter, response mxhttp.MXProbeResponse) {
	response.PrepareResponse()

	b, err := json.Marshal(response)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal the response")
		return
	}

	_, err = w.Write(b)
	if err != nil {
		logger.WithError(err).Error("Failed to write response")
	}
}

package main

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/Dynom/mxprobe/cmd/web/config"
	"github.com/Dynom/mxprobe/cmd/web/mxhttp"
	"github.com/Dynom/mxprobe/runtimer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// Version contains the app version, the value is changed during compile time to the appropriate Git tag
var Version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	fileName := "config.toml"
	if v, ok := os.LookupEnv(config.EnvPrefix + "CONFIG"); ok {
		fileName = v
	}

	conf, err := config.NewConfig(fileName)
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(conf)
	if err != nil {
		panic(err)
	}

	logger.WithFields(logrus.Fields{
		"version": Version,
		"config":  fileName,
	}).Info("Starting up...")

	ctx, sh := runtimer.WithCancel(context.Background(), os.Interrupt, syscall.SIGTERM)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	v, err := newValidator(conf, logger)
	if err != nil {
		logger.WithError(err).Fatal("Unable to configure the validator")
	}

	a, err := newApp(ctx, conf, logger, reg, v)
	if err != nil {
		logger.WithError(err).Fatal("Unable to start")
	}

	defer deferClose(a, logger)

	lw := logger.WriterLevel(logrus.ErrorLevel)
	defer deferClose(lw, logger)

	s, err := mxhttp.BuildHTTPServer(a.mux, conf, logger, lw, middlewares(conf, logger)...)
	if err != nil {
		return
	}

	sh.RegisterCallback(func(sig os.Signal) {
		logger.WithField("signal", sig.String()).Info("Received signal, shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Unclean shutdown")
		}
	})

	logger.WithFields(logrus.Fields{
		"listen_on": s.Addr().String(),
	}).Info("Done, serving requests")

	err = s.Serve()
	if err != nil {
		logger.WithError(err).Error("HTTP server stopped")
		sh.Stop()
	}

	sh.Wait()
}

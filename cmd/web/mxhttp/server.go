package mxhttp

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/Dynom/mxprobe/cmd/web/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
)

// BuildHTTPServer wraps mux in handlers (first one innermost) and binds the listener configured in Server.ListenOn
func BuildHTTPServer(mux http.Handler, config config.Config, logger logrus.FieldLogger, logWriter io.Writer, handlers ...func(h http.Handler) http.Handler) (*Server, error) {
	for _, h := range handlers {
		mux = h(mux)
	}

	// A batch request holds the connection for as long as its slowest probe, plus retries
	wTTL := config.Probe.Timeout.AsDuration()*5*time.Duration(config.Probe.Retries+1) + 10*time.Second
	if config.Server.Profiler.Enable && wTTL < 31*time.Second {
		wTTL = 31 * time.Second
	}

	server := &http.Server{
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      wTTL,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 19, // 512 kb
		Handler:           mux,
		Addr:              config.Server.ListenOn,
		ErrorLog:          log.New(logWriter, "", 0),
	}

	listener, err := net.Listen("tcp", config.Server.ListenOn)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":     err,
			"listen_on": config.Server.ListenOn,
		}).Error("Unable to start listener")

		return nil, fmt.Errorf("unable to listen on %q %w", config.Server.ListenOn, err)
	}

	if config.Server.ConnectionLimit > 0 {
		listener = netutil.LimitListener(listener, int(config.Server.ConnectionLimit))
	}

	return &Server{
		server:   server,
		listener: listener,
		logger:   logger,
	}, nil
}

type Server struct {
	server   *http.Server
	listener net.Listener
	logger   logrus.FieldLogger
}

// Addr returns the address the server listens on
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve blocks until Shutdown is called, after which it returns nil
func (s *Server) Serve() error {
	err := s.server.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}

	return err
}

// Shutdown stops accepting connections and waits for in-flight requests, up to the deadline of ctx
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

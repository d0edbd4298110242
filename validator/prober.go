package validator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"os"
	"strings"
	"time"
)

const (
	defaultPort         = "25"
	defaultProbeTimeout = 10 * time.Second
)

var errLineBreak = errors.New("line breaks aren't allowed in SMTP command arguments")

// aLongTimeAgo is a deadline in the past, setting it on a connection aborts every pending read and write
var aLongTimeAgo = time.Unix(1, 0)

// ProbeResponse is the server's reply to the recipient declaration
type ProbeResponse struct {
	Code    int
	Message string
}

// Accepted returns true when the recipient was accepted by the mail exchange
func (r ProbeResponse) Accepted() bool {
	return r.Code == 250
}

type ProberOption func(p *SMTPProber)

// WithDialer sets the dialer used to connect to mail exchanges, e.g. a SOCKS5 proxy from NewProxyDialer
func WithDialer(d DialContext) ProberOption {
	return func(p *SMTPProber) {
		p.dialer = d
	}
}

// WithHelo sets the identity presented in the HELO command
func WithHelo(helo string) ProberOption {
	return func(p *SMTPProber) {
		p.helo = helo
	}
}

// WithSender sets the address used in the MAIL FROM command
func WithSender(sender string) ProberOption {
	return func(p *SMTPProber) {
		p.sender = sender
	}
}

func WithPort(port string) ProberOption {
	return func(p *SMTPProber) {
		p.port = port
	}
}

// WithProbeTimeout bounds the connect and every round-trip of a probe
func WithProbeTimeout(d time.Duration) ProberOption {
	return func(p *SMTPProber) {
		p.timeout = d
	}
}

// NewSMTPProber creates a Prober that performs a partial SMTP handshake. Without options it connects on port 25,
// announces the local host name and uses postmaster@<host name> as sender.
func NewSMTPProber(options ...ProberOption) *SMTPProber {
	p := SMTPProber{
		dialer:  &net.Dialer{},
		port:    defaultPort,
		timeout: defaultProbeTimeout,
	}

	for _, opt := range options {
		opt(&p)
	}

	if p.helo == "" {
		p.helo = localHostname()
	}

	if p.sender == "" {
		p.sender = "postmaster@" + p.helo
	}

	if p.port == "" {
		p.port = defaultPort
	}

	if p.timeout <= 0 {
		p.timeout = defaultProbeTimeout
	}

	return &p
}

type SMTPProber struct {
	dialer  DialContext
	helo    string
	sender  string
	port    string
	timeout time.Duration
}

// Probe connects to host and declares address as recipient. The session is always ended with QUIT, no mail is ever
// transferred. A response other than 250 on RCPT TO is returned together with an ErrProbeProtocolRejected error.
func (p *SMTPProber) Probe(ctx context.Context, host, address string) (ProbeResponse, error) {
	if hasLineBreak(address) {
		return ProbeResponse{}, ValidationError{Validator: "probe rcpt", Internal: errLineBreak, error: ErrMalformedAddress}
	}

	if hasLineBreak(p.helo) || hasLineBreak(p.sender) {
		return ProbeResponse{}, ValidationError{Validator: "probe mail", Internal: errLineBreak, error: ErrProbeProtocolRejected}
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	conn, err := p.dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(host, p.port))
	cancel()

	if err != nil {
		return ProbeResponse{}, probeError(ctx, "dial", err)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(aLongTimeAgo)
	})
	defer stop()

	tc := textproto.NewConn(conn)
	defer tc.Close()

	if err := p.expect(ctx, conn, tc, 220); err != nil {
		return ProbeResponse{}, probeError(ctx, "greeting", err)
	}

	defer p.quit(ctx, conn, tc)

	if _, _, err := p.cmd(ctx, conn, tc, 250, "HELO %s", p.helo); err != nil {
		return ProbeResponse{}, probeError(ctx, "helo", err)
	}

	if _, _, err := p.cmd(ctx, conn, tc, 250, "MAIL FROM:<%s>", p.sender); err != nil {
		return ProbeResponse{}, probeError(ctx, "mail", err)
	}

	code, msg, err := p.cmd(ctx, conn, tc, 250, "RCPT TO:<%s>", address)
	if err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) {
			code, msg = tpErr.Code, tpErr.Msg
		}

		return ProbeResponse{Code: code, Message: msg}, probeError(ctx, "rcpt", err)
	}

	return ProbeResponse{Code: code, Message: msg}, nil
}

// expect reads a response, without sending a command first
func (p *SMTPProber) expect(ctx context.Context, conn net.Conn, tc *textproto.Conn, code int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_ = conn.SetDeadline(time.Now().Add(p.timeout))
	_, _, err := tc.ReadResponse(code)
	return err
}

// cmd performs a single round-trip with its own deadline
func (p *SMTPProber) cmd(ctx context.Context, conn net.Conn, tc *textproto.Conn, code int, format string, args ...any) (int, string, error) {
	if err := ctx.Err(); err != nil {
		return 0, "", err
	}

	_ = conn.SetDeadline(time.Now().Add(p.timeout))
	if err := tc.PrintfLine(format, args...); err != nil {
		return 0, "", err
	}

	return tc.ReadResponse(code)
}

// quit ends the session politely. Skipped when the context is done, since the connection is unusable by then.
func (p *SMTPProber) quit(ctx context.Context, conn net.Conn, tc *textproto.Conn) {
	if ctx.Err() != nil {
		return
	}

	_, _, _ = p.cmd(ctx, conn, tc, 221, "QUIT")
}

// probeError classifies a probe failure
func probeError(ctx context.Context, step string, err error) error {
	var sentinel = ErrProbeConnectionFailed

	var tpErr *textproto.Error
	var protoErr textproto.ProtocolError
	var netErr net.Error

	switch {
	case ctx.Err() != nil:
		sentinel = ErrProbeTimeout
		err = fmt.Errorf("%s %w", err, ctx.Err())

	case errors.As(err, &tpErr), errors.As(err, &protoErr):
		sentinel = ErrProbeProtocolRejected

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		sentinel = ErrProbeTimeout

	case errors.As(err, &netErr) && netErr.Timeout():
		sentinel = ErrProbeTimeout
	}

	return ValidationError{
		Validator: "probe " + step,
		Internal:  err,
		error:     sentinel,
	}
}

func hasLineBreak(v string) bool {
	return strings.ContainsAny(v, "\r\n")
}

func localHostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "localhost"
	}

	return h
}

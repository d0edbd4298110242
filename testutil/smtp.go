package testutil

import (
	"context"
	"io"
	"net"
	"net/textproto"
	"strings"
	"sync"
)

const (
	// Greeting is the verb used to refer to the server's greeting in Stall and HangUp
	Greeting = "GREETING"
)

var defaultReplies = map[string]string{
	Greeting: "220 mx.test ESMTP",
	"HELO":   "250 mx.test",
	"EHLO":   "250 mx.test",
	"MAIL":   "250 2.1.0 Ok",
	"RCPT":   "250 2.1.5 Ok",
	"RSET":   "250 2.0.0 Ok",
	"QUIT":   "221 2.0.0 Bye",
}

// SMTPServer is a scripted mail exchange. Every dial is served over an in-memory net.Pipe, so tests don't need
// network access.
type SMTPServer struct {
	// Replies overrides the reply line per verb (e.g. "RCPT": "550 5.1.1 User unknown")
	Replies map[string]string

	// Stall makes the server stop responding once the verb is received, it keeps the connection open
	Stall string

	// HangUp makes the server close the connection once the verb is received
	HangUp string

	// DialErr is returned from DialContext, when set
	DialErr error

	lock     sync.Mutex
	commands []string
	dialed   []string
}

// DialContext makes the server usable as a dialer for the prober
func (s *SMTPServer) DialContext(_ context.Context, _, address string) (net.Conn, error) {
	s.lock.Lock()
	s.dialed = append(s.dialed, address)
	s.lock.Unlock()

	if s.DialErr != nil {
		return nil, s.DialErr
	}

	client, server := net.Pipe()
	go s.serve(server)

	return client, nil
}

// Commands returns every command line received, over all sessions
func (s *SMTPServer) Commands() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]string(nil), s.commands...)
}

// Dialed returns the addresses that were dialed
func (s *SMTPServer) Dialed() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]string(nil), s.dialed...)
}

func (s *SMTPServer) serve(conn net.Conn) {
	defer conn.Close()

	tc := textproto.NewConn(conn)
	if !s.respond(conn, tc, Greeting) {
		return
	}

	for {
		line, err := tc.ReadLine()
		if err != nil {
			return
		}

		s.lock.Lock()
		s.commands = append(s.commands, line)
		s.lock.Unlock()

		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		if !s.respond(conn, tc, verb) || verb == "QUIT" {
			return
		}
	}
}

func (s *SMTPServer) respond(conn net.Conn, tc *textproto.Conn, verb string) bool {
	if s.HangUp != "" && verb == s.HangUp {
		return false
	}

	if s.Stall != "" && verb == s.Stall {
		// Swallow everything until the client gives up
		_, _ = io.Copy(io.Discard, conn)
		return false
	}

	reply, ok := s.Replies[verb]
	if !ok {
		reply, ok = defaultReplies[verb]
	}

	if !ok {
		reply = "502 5.5.2 Error: command not recognized"
	}

	return tc.PrintfLine("%s", reply) == nil
}

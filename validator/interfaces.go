package validator

import (
	"context"
	"net"
)

type LookupMX interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

type DialContext interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Resolver finds the preferred mail exchange host for a domain
type Resolver interface {
	Resolve(ctx context.Context, domain string) (string, error)
}

// Prober asks a mail exchange whether it accepts a recipient
type Prober interface {
	Probe(ctx context.Context, host, address string) (ProbeResponse, error)
}

// CheckFn is the signature of a full address check, it's used to chain proxies around a validator
type CheckFn func(ctx context.Context, address string) Result

// Check makes CheckFn usable wherever a checker is expected
func (fn CheckFn) Check(ctx context.Context, address string) Result {
	return fn(ctx, address)
}

package validator

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/miekg/dns"
)

// NewDNSClient creates a LookupMX implementation that talks to a specific name server, instead of the system's
// configured resolver. The server may omit the port, 53 is assumed.
func NewDNSClient(server string, timeout time.Duration) *DNSClient {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &DNSClient{
		client: &dns.Client{
			Net:     "udp",
			Timeout: timeout,
		},
		tcpClient: &dns.Client{
			Net:     "tcp",
			Timeout: timeout,
		},
		server: server,
	}
}

type DNSClient struct {
	client    *dns.Client
	tcpClient *dns.Client
	server    string
}

// LookupMX queries the name server for MX records. Errors mimic the ones from the net package.
func (c *DNSClient) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeMX)

	in, _, err := c.client.ExchangeContext(ctx, m, c.server)

	// A truncated answer might lack the preferred record, the full set is only available over TCP
	if err == nil && in.Truncated {
		in, _, err = c.tcpClient.ExchangeContext(ctx, m, c.server)
	}

	if err != nil {
		var ne net.Error
		return nil, &net.DNSError{
			Err:       err.Error(),
			Name:      domain,
			Server:    c.server,
			IsTimeout: errors.As(err, &ne) && ne.Timeout(),
		}
	}

	if in.Rcode != dns.RcodeSuccess {
		return nil, &net.DNSError{
			Err:        dns.RcodeToString[in.Rcode],
			Name:       domain,
			Server:     c.server,
			IsNotFound: in.Rcode == dns.RcodeNameError,
		}
	}

	var mxs = make([]*net.MX, 0, len(in.Answer))
	for _, rr := range in.Answer {
		if mx, ok := rr.(*dns.MX); ok {
			mxs = append(mxs, &net.MX{
				Host: mx.Mx,
				Pref: mx.Preference,
			})
		}
	}

	return mxs, nil
}

package validator

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// NewMXResolver creates a Resolver on top of a LookupMX implementation. A nil lookup uses Go's default resolver.
func NewMXResolver(lookup LookupMX) *MXResolver {
	if lookup == nil {
		lookup = net.DefaultResolver
	}

	return &MXResolver{
		lookup: lookup,
	}
}

type MXResolver struct {
	lookup LookupMX
}

// Resolve performs a single MX query and returns the host with the lowest preference value. Any failure, including
// the query itself failing, results in ErrNoMailExchangeFound. Resolve doesn't retry.
func (r *MXResolver) Resolve(ctx context.Context, domain string) (string, error) {
	if domain == "" {
		return "", ValidationError{
			Validator: "resolve",
			Internal:  errors.New("empty domain"),
			error:     ErrNoMailExchangeFound,
		}
	}

	ascii, err := domainToASCII(domain)
	if err != nil {
		return "", ValidationError{
			Validator: "resolve",
			Internal:  fmt.Errorf("domain %q can't be converted to ASCII %w", domain, err),
			error:     ErrNoMailExchangeFound,
		}
	}

	mxs, err := r.lookup.LookupMX(ctx, ascii)
	if err != nil && len(mxs) == 0 {
		return "", ValidationError{
			Validator: "resolve",
			Internal:  fmt.Errorf("MX lookup failed %w", err),
			error:     ErrNoMailExchangeFound,
		}
	}

	if len(mxs) == 0 {
		return "", ValidationError{
			Validator: "resolve",
			Internal:  fmt.Errorf("no MX records found for %q", ascii),
			error:     ErrNoMailExchangeFound,
		}
	}

	host, ok := preferredHost(mxs)
	if !ok {
		return "", ValidationError{
			Validator: "resolve",
			Internal:  fmt.Errorf("tried %d MX host(s), all were invalid", len(mxs)),
			error:     ErrNoMailExchangeFound,
		}
	}

	return host, nil
}

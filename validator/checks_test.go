package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/Dynom/mxprobe/validator/validations"
)

type resolverFn func(ctx context.Context, domain string) (string, error)

func (fn resolverFn) Resolve(ctx context.Context, domain string) (string, error) {
	return fn(ctx, domain)
}

func Test_checkEmailAddressSyntax(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr error
		domain  string
	}{
		{name: "valid", address: "john@example.org", domain: "example.org"},
		{name: "upper case domain", address: "john@Example.ORG", domain: "example.org"},
		{name: "no at", address: "john.example.org", wantErr: ErrMalformedAddress},
		{name: "two ats", address: "jo@hn@example.org", wantErr: ErrMalformedAddress},
		{name: "empty local", address: "@example.org", wantErr: ErrMalformedAddress},
		{name: "empty domain", address: "john@", wantErr: ErrMalformedAddress},
		{name: "empty", address: "", wantErr: ErrMalformedAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Artifact{address: tt.address}
			err := checkEmailAddressSyntax(a)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkEmailAddressSyntax() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !a.Steps.HasFlag(validations.FSyntax) {
				t.Errorf("Expected the syntax step to be marked, got %s", a.Steps)
			}

			if got := a.Validations.HasFlag(validations.FSyntax); got != (tt.wantErr == nil) {
				t.Errorf("Validations.HasFlag(FSyntax) = %t, want %t", got, tt.wantErr == nil)
			}

			if tt.wantErr == nil && a.email.Domain != tt.domain {
				t.Errorf("Expected domain %q, got %q", tt.domain, a.email.Domain)
			}
		})
	}
}

func Test_checkIfDomainHasMX(t *testing.T) {
	tests := []struct {
		name     string
		resolver resolverFn
		wantErr  error
		wantMX   string
	}{
		{
			name: "found",
			resolver: func(_ context.Context, _ string) (string, error) {
				return "mx.example.org", nil
			},
			wantMX: "mx.example.org",
		},
		{
			name: "empty host",
			resolver: func(_ context.Context, _ string) (string, error) {
				return "", nil
			},
			wantErr: ErrNoMailExchangeFound,
		},
		{
			name: "untagged error",
			resolver: func(_ context.Context, _ string) (string, error) {
				return "", errors.New("boom")
			},
			wantErr: ErrNoMailExchangeFound,
		},
		{
			name: "tagged error is kept",
			resolver: func(_ context.Context, _ string) (string, error) {
				return "", ValidationError{Validator: "test", error: ErrProbeTimeout}
			},
			wantErr: ErrProbeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Artifact{ctx: context.Background(), address: "john@example.org"}
			a.email.Domain = "example.org"

			err := checkIfDomainHasMX(tt.resolver)(a)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Unexpected error %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("checkIfDomainHasMX() error = %v, wantErr %v", err, tt.wantErr)
			}

			if a.mx != tt.wantMX {
				t.Errorf("Expected MX %q, got %q", tt.wantMX, a.mx)
			}

			if got := a.Validations.HasFlag(validations.FMXLookup); got != (tt.wantErr == nil) {
				t.Errorf("Validations.HasFlag(FMXLookup) = %t, want %t", got, tt.wantErr == nil)
			}
		})
	}
}

func Test_checkRCPT(t *testing.T) {
	tests := []struct {
		name        string
		prober      *mockProber
		wantErr     error
		wantConnect bool
		wantCode    int
	}{
		{
			name:        "accepted",
			prober:      &mockProber{resp: ProbeResponse{Code: 250}},
			wantConnect: true,
			wantCode:    250,
		},
		{
			name:        "rejected code",
			prober:      &mockProber{resp: ProbeResponse{Code: 550, Message: "no such user"}},
			wantErr:     ErrProbeProtocolRejected,
			wantConnect: true,
			wantCode:    550,
		},
		{
			name:        "protocol error still connected",
			prober:      &mockProber{resp: ProbeResponse{Code: 530}, err: ValidationError{Validator: "test", error: ErrProbeProtocolRejected}},
			wantErr:     ErrProbeProtocolRejected,
			wantConnect: true,
			wantCode:    530,
		},
		{
			name:    "connection failure",
			prober:  &mockProber{err: errors.New("connection refused")},
			wantErr: ErrProbeConnectionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Artifact{ctx: context.Background(), mx: "mx.example.org"}
			a.email.Address = "john@example.org"

			err := checkRCPT(tt.prober)(a)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Unexpected error %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("checkRCPT() error = %v, wantErr %v", err, tt.wantErr)
			}

			if a.code != tt.wantCode {
				t.Errorf("Expected code %d, got %d", tt.wantCode, a.code)
			}

			if got := a.Validations.HasFlag(validations.FHostConnect); got != tt.wantConnect {
				t.Errorf("Validations.HasFlag(FHostConnect) = %t, want %t", got, tt.wantConnect)
			}

			if got := a.Validations.HasFlag(validations.FValidRCPT); got != (tt.wantErr == nil) {
				t.Errorf("Validations.HasFlag(FValidRCPT) = %t, want %t", got, tt.wantErr == nil)
			}
		})
	}
}

package validator

import (
	"fmt"
	"time"

	"github.com/Dynom/mxprobe/types"
	"github.com/Dynom/mxprobe/validator/validations"
)

// Step labels, as used in Timings
const (
	stepSyntax   = "syntax"
	stepMXLookup = "mx_lookup"
	stepRCPT     = "rcpt"
)

// checkEmailAddressSyntax requires exactly one "@" between a non-empty local and domain part. It doesn't try to be
// RFC 5322 compliant, the mail exchange has the final say.
func checkEmailAddressSyntax(a *Artifact) error {
	a.Steps.SetFlag(validations.FSyntax)

	start := time.Now()
	defer func() {
		a.Timings.Add(stepSyntax, time.Since(start))
	}()

	parts, err := types.NewEmailParts(a.address)
	if err != nil {
		return ValidationError{
			Validator: "checkEmailAddressSyntax",
			Internal:  err,
			error:     ErrMalformedAddress,
		}
	}

	a.email = parts
	a.Validations.SetFlag(validations.FSyntax)
	return nil
}

// checkIfDomainHasMX resolves the preferred mail exchange of the domain
func checkIfDomainHasMX(r Resolver) stateFn {
	return func(a *Artifact) error {
		a.Steps.SetFlag(validations.FMXLookup)

		start := time.Now()
		defer func() {
			a.Timings.Add(stepMXLookup, time.Since(start))
		}()

		mx, err := r.Resolve(a.ctx, a.email.Domain)
		if err != nil {
			return asValidationError("checkIfDomainHasMX", err, ErrNoMailExchangeFound)
		}

		if mx == "" {
			return ValidationError{
				Validator: "checkIfDomainHasMX",
				Internal:  fmt.Errorf("resolver returned no host for %q", a.email.Domain),
				error:     ErrNoMailExchangeFound,
			}
		}

		a.mx = mx
		a.Validations.SetFlag(validations.FMXLookup)
		return nil
	}
}

// checkRCPT asks the mail exchange if it accepts the address as recipient
func checkRCPT(p Prober) stateFn {
	return func(a *Artifact) error {
		a.Steps.SetFlag(validations.FHostConnect | validations.FValidRCPT)

		start := time.Now()
		defer func() {
			a.Timings.Add(stepRCPT, time.Since(start))
		}()

		resp, err := p.Probe(a.ctx, a.mx, a.email.Address)
		a.code = resp.Code

		if err == nil || KindOf(err) == KindProbeProtocolRejected {
			a.Validations.SetFlag(validations.FHostConnect)
		}

		if err != nil {
			return asValidationError("checkRCPT", err, ErrProbeConnectionFailed)
		}

		if !resp.Accepted() {
			return ValidationError{
				Validator: "checkRCPT",
				Internal:  fmt.Errorf("recipient not accepted %d %s", resp.Code, resp.Message),
				error:     ErrProbeProtocolRejected,
			}
		}

		a.Validations.SetFlag(validations.FValidRCPT)
		return nil
	}
}

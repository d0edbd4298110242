package validator

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

type Option func(v *EmailValidator)

// WithResolver sets the Resolver, by default the system's resolver is used
func WithResolver(r Resolver) Option {
	return func(v *EmailValidator) {
		v.resolver = r
	}
}

// WithProber sets the Prober, by default an SMTPProber without options is used
func WithProber(p Prober) Option {
	return func(v *EmailValidator) {
		v.prober = p
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(v *EmailValidator) {
		v.logger = l
	}
}

// NewEmailAddressValidator composes a Resolver and a Prober into a single check
func NewEmailAddressValidator(options ...Option) *EmailValidator {
	v := EmailValidator{}

	for _, opt := range options {
		opt(&v)
	}

	if v.resolver == nil {
		v.resolver = NewMXResolver(nil)
	}

	if v.prober == nil {
		v.prober = NewSMTPProber()
	}

	if v.logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		v.logger = l
	}

	return &v
}

type EmailValidator struct {
	resolver Resolver
	prober   Prober
	logger   logrus.FieldLogger
}

// Check performs the syntax check, the MX lookup and the recipient probe, in that order. A malformed address never
// results in a network call. Check never fails, every problem results in a rejected Result.
func (v *EmailValidator) Check(ctx context.Context, address string) (result Result) {
	artifact := Artifact{
		address: address,
		ctx:     ctx,
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		result = createResult(artifact, ValidationError{
			Validator: "Check",
			Internal:  fmt.Errorf("recovered from panic %v", r),
			error:     ErrProbeConnectionFailed,
		})

		v.logger.WithFields(logrus.Fields{
			"address": address,
			"panic":   r,
		}).Error("Recovered from panic while checking address")
	}()

	err := validateSequence(ctx, &artifact, []stateFn{
		checkEmailAddressSyntax,
		checkIfDomainHasMX(v.resolver),
		checkRCPT(v.prober),
	})

	result = createResult(artifact, err)

	v.logger.WithFields(logrus.Fields{
		"address":   address,
		"valid":     result.Valid,
		"kind":      result.Kind.String(),
		"mx":        result.MXHost,
		"code":      result.Code,
		"steps":     result.Steps.String(),
		"passed":    result.Validations.String(),
		"failed_at": result.Steps.FailedAt(result.Validations).String(),
		"duration":  result.Timings.Total().String(),
		"error":     result.Reason(),
	}).Debug("Checked address")

	return result
}

// validateSequence runs the steps in order and stops on the first failure. The context is consulted between steps.
func validateSequence(ctx context.Context, a *Artifact, sequence []stateFn) error {
	for i, fn := range sequence {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				return ValidationError{
					Validator: "validateSequence",
					Internal:  err,
					error:     ErrProbeTimeout,
				}
			}
		}

		if err := fn(a); err != nil {
			return err
		}
	}

	a.Validations.MarkAsValid()
	return nil
}

package validator

import (
	"errors"
)

var (
	ErrMalformedAddress      = errors.New("malformed e-mail address")
	ErrNoMailExchangeFound   = errors.New("no mail exchange found")
	ErrProbeConnectionFailed = errors.New("probe connection failed")
	ErrProbeProtocolRejected = errors.New("probe rejected by mail exchange")
	ErrProbeTimeout          = errors.New("probe timed out")
)

// ValidationError ties a sentinel error to the step that produced it and the underlying cause
type ValidationError struct {
	Validator string
	Internal  error
	error
}

func (e ValidationError) Error() string {
	if e.Internal == nil {
		return e.Validator + ": " + e.error.Error()
	}

	return e.Validator + ": " + e.error.Error() + ": " + e.Internal.Error()
}

func (e ValidationError) Unwrap() []error {
	if e.Internal == nil {
		return []error{e.error}
	}

	return []error{e.error, e.Internal}
}

// ErrorKind tags a rejected Result with the reason it was rejected
type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindMalformedAddress
	KindNoMailExchangeFound
	KindProbeConnectionFailed
	KindProbeProtocolRejected
	KindProbeTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMalformedAddress:
		return "malformed_address"
	case KindNoMailExchangeFound:
		return "no_mail_exchange_found"
	case KindProbeConnectionFailed:
		return "probe_connection_failed"
	case KindProbeProtocolRejected:
		return "probe_protocol_rejected"
	case KindProbeTimeout:
		return "probe_timeout"
	}

	return "unknown"
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ErrorKind) UnmarshalText(text []byte) error {
	*k = ParseErrorKind(string(text))
	return nil
}

// ParseErrorKind is the inverse of ErrorKind.String, unknown values map to KindProbeConnectionFailed
func ParseErrorKind(v string) ErrorKind {
	for k := KindNone; k <= KindProbeTimeout; k++ {
		if k.String() == v {
			return k
		}
	}

	return KindProbeConnectionFailed
}

// Retryable returns true for kinds that might have a different outcome on a second attempt
func (k ErrorKind) Retryable() bool {
	return k == KindProbeConnectionFailed || k == KindProbeTimeout
}

// KindOf maps an error to its ErrorKind. Errors that aren't part of the taxonomy are considered connection failures.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedAddress):
		return KindMalformedAddress
	case errors.Is(err, ErrNoMailExchangeFound):
		return KindNoMailExchangeFound
	case errors.Is(err, ErrProbeTimeout):
		return KindProbeTimeout
	case errors.Is(err, ErrProbeProtocolRejected):
		return KindProbeProtocolRejected
	}

	return KindProbeConnectionFailed
}

// asValidationError keeps errors that already carry a kind, and tags everything else with fallback
func asValidationError(validator string, err error, fallback error) error {
	if KindOf(err) != KindProbeConnectionFailed || errors.Is(err, ErrProbeConnectionFailed) {
		return err
	}

	return ValidationError{
		Validator: validator,
		Internal:  err,
		error:     fallback,
	}
}

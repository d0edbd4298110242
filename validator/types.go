package validator

import (
	"context"

	"github.com/Dynom/mxprobe/types"
	"github.com/Dynom/mxprobe/validator/validations"
)

// Artifact is the state shared between the steps of a single check
type Artifact struct {
	Validations validations.Validations
	Steps       validations.Steps
	Timings
	address string
	email   types.EmailParts
	mx      string
	code    int
	ctx     context.Context
}

type stateFn func(a *Artifact) error

// Result is the outcome of checking a single address. Valid is the verdict, when false Kind tells why.
type Result struct {
	Address     string                  `json:"address"`
	Valid       bool                    `json:"valid"`
	Kind        ErrorKind               `json:"kind"`
	Error       error                   `json:"-"`
	MXHost      string                  `json:"mx_host,omitempty"`
	Code        int                     `json:"code,omitempty"`
	Validations validations.Validations `json:"-"`
	Steps       validations.Steps       `json:"-"`
	Timings     `json:"-"`
}

// ValidatorsRan returns true if any of the steps ran
func (r Result) ValidatorsRan() bool {
	return r.Steps > 0 || r.Validations > 0
}

// Reason returns a human-readable explanation of a rejection, or an empty string
func (r Result) Reason() string {
	if r.Error == nil {
		return ""
	}

	return r.Error.Error()
}

func createResult(a Artifact, err error) Result {
	r := Result{
		Address:     a.address,
		Valid:       err == nil && a.Validations.IsValid(),
		Kind:        KindOf(err),
		Error:       err,
		MXHost:      a.mx,
		Code:        a.code,
		Validations: a.Validations,
		Steps:       a.Steps,
		Timings:     a.Timings,
	}

	if !r.Valid && r.Kind == KindNone {
		r.Kind = KindProbeProtocolRejected
	}

	return r
}

// NewRejectedResult creates a result for an address that was never checked, e.g. when a batch was aborted
func NewRejectedResult(address string, err error) Result {
	return Result{
		Address: address,
		Kind:    KindOf(err),
		Error:   err,
	}
}

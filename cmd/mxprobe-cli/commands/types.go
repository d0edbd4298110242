package commands

import (
	"time"

	"github.com/Dynom/mxprobe/validator"
	"github.com/Dynom/mxprobe/validator/validations"
)

type ReportStats struct {
	Passed   uint64 `json:"passed" yaml:"passed"`
	Rejected uint64 `json:"rejected" yaml:"rejected"`
	Duration int64  `json:"run_duration_ms" yaml:"run_duration_ms"`
}

// CheckResultFull is the JSON line written per address
type CheckResultFull struct {
	Email   string   `json:"email"`
	Valid   bool     `json:"valid"`
	Kind    string   `json:"kind"`
	MX      string   `json:"mx,omitempty"`
	Code    int      `json:"code,omitempty"`
	Reason  string   `json:"reason,omitempty"`
	Checks  []string `json:"checks_run"`
	Passed  []string `json:"checks_passed"`
	Version int      `json:"version"`
}

func newCheckResultFull(r validator.Result) CheckResultFull {
	return CheckResultFull{
		Email:   r.Address,
		Valid:   r.Valid,
		Kind:    r.Kind.String(),
		MX:      r.MXHost,
		Code:    r.Code,
		Reason:  r.Reason(),
		Checks:  validations.Flag(r.Steps).AsStringSlice(),
		Passed:  validations.Flag(r.Validations.RemoveFlag(validations.FValid)).AsStringSlice(),
		Version: 2,
	}
}

type CheckSettings struct {
	Format string
	Input  string
	CSV    csvOptions
	Check  checkOptions
	Output outputOptions
}

type checkOptions struct {
	Resolver      string
	Sender        string
	Helo          string
	Port          string
	Timeout       time.Duration
	Workers       int
	Retries       int
	Backoff       time.Duration
	Proxy         string
	ProxyUser     string
	ProxyPassword string
}

type csvOptions struct {
	skipRows uint64
	column   int
	header   string
}

type outputOptions struct {
	ValidOut   string
	InvalidOut string
	Progress   string
}

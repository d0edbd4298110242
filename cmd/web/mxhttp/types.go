package mxhttp

import (
	"errors"

	"github.com/Dynom/mxprobe/validator"
)

var (
	ErrMissingBody            = errors.New("missing body")
	ErrInvalidRequest         = errors.New("request is invalid")
	ErrBodyTooLarge           = errors.New("request body too large")
	ErrUnsupportedContentType = errors.New("unsupported content-type")
)

var empty = make([]CheckResponse, 0)

type MXProbeResponse interface {
	PrepareResponse()
}

type CheckRequest struct {
	Email string `json:"email"`
}

type CheckResponse struct {
	Email  string              `json:"email"`
	Valid  bool                `json:"valid"`
	Kind   validator.ErrorKind `json:"kind"`
	MXHost string              `json:"mx_host,omitempty"`
	Code   int                 `json:"code,omitempty"`
	Reason string              `json:"reason,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func (r *CheckResponse) PrepareResponse() {}

// NewCheckResponse converts a result to its public representation
func NewCheckResponse(r validator.Result) CheckResponse {
	return CheckResponse{
		Email:  r.Address,
		Valid:  r.Valid,
		Kind:   r.Kind,
		MXHost: r.MXHost,
		Code:   r.Code,
		Reason: r.Reason(),
	}
}

type BatchRequest struct {
	Emails []string `json:"emails"`
}

type BatchResponse struct {
	Valid        []CheckResponse `json:"valid"`
	Invalid      []CheckResponse `json:"invalid"`
	ValidCount   int             `json:"valid_count"`
	InvalidCount int             `json:"invalid_count"`
	Error        string          `json:"error,omitempty"`
}

func (r *BatchResponse) PrepareResponse() {
	if r.Valid == nil {
		r.Valid = empty
	}

	if r.Invalid == nil {
		r.Invalid = empty
	}

	r.ValidCount = len(r.Valid)
	r.InvalidCount = len(r.Invalid)
}

// NewBatchResponse partitions results on their verdict
func NewBatchResponse(accepted, rejected []validator.Result) BatchResponse {
	res := BatchResponse{
		Valid:   make([]CheckResponse, 0, len(accepted)),
		Invalid: make([]CheckResponse, 0, len(rejected)),
	}

	for _, r := range accepted {
		res.Valid = append(res.Valid, NewCheckResponse(r))
	}

	for _, r := range rejected {
		res.Invalid = append(res.Invalid, NewCheckResponse(r))
	}

	return res
}

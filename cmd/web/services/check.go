package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dynom/mxprobe/batch"
	"github.com/Dynom/mxprobe/validator"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyInput    = errors.New("input is empty")
	ErrInputTooLong  = errors.New("input is too long")
	ErrBatchTooLarge = errors.New("batch is too large")
)

// maxAddressLength is the longest path allowed by RFC 5321 (256), minus the angle brackets
const maxAddressLength = 254

func NewCheckService(orchestrator *batch.Orchestrator, batchSizeMax uint64, logger logrus.FieldLogger) *CheckSvc {
	return &CheckSvc{
		orchestrator: orchestrator,
		batchSizeMax: batchSizeMax,
		logger:       logger.WithField("svc", "check"),
	}
}

// CheckSvc runs single addresses and batches through the same orchestrator, so every result passes the same sinks
type CheckSvc struct {
	orchestrator *batch.Orchestrator
	batchSizeMax uint64
	logger       logrus.FieldLogger
}

func (c *CheckSvc) HandleCheckRequest(ctx context.Context, address string) (validator.Result, error) {
	if address == "" {
		return validator.Result{}, ErrEmptyInput
	}

	if len(address) > maxAddressLength {
		return validator.Result{}, ErrInputTooLong
	}

	results := c.orchestrator.Run(ctx, []string{address}).Results()

	return results[0], nil
}

// HandleBatchRequest checks all addresses, the result set holds exactly one result per address
func (c *CheckSvc) HandleBatchRequest(ctx context.Context, addresses []string) (*batch.ResultSet, error) {
	if len(addresses) == 0 {
		return nil, ErrEmptyInput
	}

	if c.batchSizeMax > 0 && uint64(len(addresses)) > c.batchSizeMax {
		return nil, fmt.Errorf("%w, got %d addresses, the maximum is %d", ErrBatchTooLarge, len(addresses), c.batchSizeMax)
	}

	rs := c.orchestrator.Run(ctx, addresses)

	accepted, rejected := rs.Counts()
	c.logger.WithFields(logrus.Fields{
		"addresses": len(addresses),
		"accepted":  accepted,
		"rejected":  rejected,
	}).Debug("Batch done")

	return rs, nil
}

package commands

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/Dynom/mxprobe/batch"
	"github.com/Dynom/mxprobe/cmd/mxprobe-cli/iterator"
	"github.com/Dynom/mxprobe/validator"
	"github.com/sirupsen/logrus"
)

func createTextIterator(r io.Reader) *iterator.CallbackIterator {
	scanner := bufio.NewScanner(r)

	return iterator.NewCallbackIterator(
		scanner.Scan,
		func() (string, error) {
			return scanner.Text(), nil
		},
		scanner.Err,
	)
}

// createCSVIterator reads addresses from a single CSV column. A negative column means the column is found by its
// header name, in the first row after the skipped rows.
func createCSVIterator(r io.Reader, opts csvOptions) (*iterator.CallbackIterator, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	for toSkip := opts.skipRows; toSkip > 0; toSkip-- {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("unable to skip CSV rows %w", err)
		}
	}

	column := opts.column
	if column < 0 {
		record, err := reader.Read()
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("unable to read the CSV header %w", err)
		}

		column = columnIndex(record, opts.header)
		if column < 0 {
			return nil, fmt.Errorf("the CSV file must contain a column named %q", opts.header)
		}
	}

	var record []string
	var recordErr, lastErr error

	return iterator.NewCallbackIterator(
		func() bool {
			record, recordErr = reader.Read()
			if recordErr == nil {
				return true
			}

			// A malformed line is reported, the iteration continues
			var parseErr *csv.ParseError
			if errors.As(recordErr, &parseErr) && !errors.Is(parseErr.Err, io.ErrUnexpectedEOF) {
				return true
			}

			if recordErr != io.EOF {
				lastErr = recordErr
			}

			return false
		},
		func() (string, error) {
			if recordErr != nil {
				return "", recordErr
			}

			if column < len(record) {
				return record[column], nil
			}

			return "", nil
		},
		func() error {
			return lastErr
		},
	), nil
}

func columnIndex(record []string, name string) int {
	for i, v := range record {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(v, "\ufeff")), name) {
			return i
		}
	}

	return -1
}

// createValidator builds the validator from the command line options
func createValidator(opts checkOptions, logger logrus.FieldLogger) (batch.Checker, error) {
	var proberOptions = []validator.ProberOption{
		validator.WithSender(opts.Sender),
		validator.WithHelo(opts.Helo),
		validator.WithPort(opts.Port),
		validator.WithProbeTimeout(opts.Timeout),
	}

	if opts.Proxy != "" {
		d, err := validator.NewProxyDialer(opts.Proxy, opts.ProxyUser, opts.ProxyPassword, &net.Dialer{Timeout: opts.Timeout})
		if err != nil {
			return nil, err
		}

		proberOptions = append(proberOptions, validator.WithDialer(d))
	}

	var lookup validator.LookupMX
	if opts.Resolver != "" {
		lookup = validator.NewDNSClient(opts.Resolver, resolverTimeout(opts.Timeout))
	}

	return validator.NewEmailAddressValidator(
		validator.WithResolver(validator.NewMXResolver(lookup)),
		validator.WithProber(validator.NewSMTPProber(proberOptions...)),
		validator.WithLogger(logger),
	), nil
}

func resolverTimeout(probeTimeout time.Duration) time.Duration {
	if probeTimeout <= 0 || probeTimeout > 5*time.Second {
		return 5 * time.Second
	}

	return probeTimeout
}

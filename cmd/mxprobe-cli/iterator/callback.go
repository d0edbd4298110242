package iterator

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NewCallbackIterator provides an iterator interface based on closure callbacks
func NewCallbackIterator(next func() bool, value func() (string, error), close func() error) *CallbackIterator {
	return &CallbackIterator{
		next:  next,
		value: value,
		close: close,
	}
}

type CallbackIterator struct {
	next  func() bool
	value func() (string, error)
	close func() error
}

// Next returns true if we have more iterations pending
func (i *CallbackIterator) Next() bool {
	return i.next()
}

// Value returns the current value, and/or an error
func (i *CallbackIterator) Value() (string, error) {
	return i.value()
}

// Close performs any cleanups. It may be used to return the last error
func (i *CallbackIterator) Close() error {
	return i.close()
}

// Collect drains the iterator into a list of addresses. Values are trimmed and NFC normalised, blank values are
// dropped. Errors on individual values are passed to onErr and don't stop the iteration, the error from Close does.
func Collect(it *CallbackIterator, onErr func(err error)) ([]string, error) {
	var values []string
	for it.Next() {
		v, err := it.Value()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			continue
		}

		v = norm.NFC.String(strings.TrimSpace(v))
		if v == "" {
			continue
		}

		values = append(values, v)
	}

	return values, it.Close()
}

package persist

import (
	"context"
	"io"
	"time"

	"github.com/Dynom/mxprobe/validator"
)

// Record is the archived form of a Result. The local part of the address is only kept as a hash.
type Record struct {
	Domain    string
	Recipient []byte
	Valid     bool
	Kind      validator.ErrorKind
	Code      int
	MXHost    string
	CheckedAt time.Time
}

type RangeCallbackFn func(r Record) error

type Persister interface {
	// Store stores the record, replacing an earlier record for the same domain and recipient
	Store(ctx context.Context, r Record) error

	// Range reads all data back and invokes the callback, until all data is read back, or until the callback returns
	// a non-nil error. The implementation decides on the most optimal strategy.
	Range(ctx context.Context, cb RangeCallbackFn) error

	io.Closer
}

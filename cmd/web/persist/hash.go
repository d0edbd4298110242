package persist

import (
	"errors"
	"hash"
	"strings"
	"sync"
	"time"

	"github.com/Dynom/mxprobe/types"
	"github.com/Dynom/mxprobe/validator"
	"github.com/minio/highwayhash"
)

var ErrInvalidHashKey = errors.New("the hash key must be exactly 32 bytes")

// NewHighwayHasher creates a keyed 128-bit HighwayHash
func NewHighwayHasher(key string) (hash.Hash, error) {
	if len(key) != highwayhash.Size {
		return nil, ErrInvalidHashKey
	}

	return highwayhash.New128([]byte(key))
}

// NewRecorder creates a Recorder that hashes local parts with h
func NewRecorder(h hash.Hash) *Recorder {
	return &Recorder{
		h:   h,
		now: time.Now,
	}
}

// Recorder turns results into records, it's safe for concurrent use
type Recorder struct {
	lock sync.Mutex
	h    hash.Hash
	now  func() time.Time
}

// Record converts r. Results without a well-formed address can't be recorded.
func (rc *Recorder) Record(r validator.Result) (Record, error) {
	parts, err := types.NewEmailParts(r.Address)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Domain:    parts.Domain,
		Recipient: rc.hash(strings.ToLower(parts.Local)),
		Valid:     r.Valid,
		Kind:      r.Kind,
		Code:      r.Code,
		MXHost:    r.MXHost,
		CheckedAt: rc.now(),
	}, nil
}

func (rc *Recorder) hash(local string) []byte {
	rc.lock.Lock()
	defer rc.lock.Unlock()

	rc.h.Reset()
	_, _ = rc.h.Write([]byte(local))

	return rc.h.Sum(nil)
}

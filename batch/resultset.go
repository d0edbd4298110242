package batch

import (
	"sync"

	"github.com/Dynom/mxprobe/validator"
)

// NewResultSet creates an empty ResultSet, capacity is a hint
func NewResultSet(capacity int) *ResultSet {
	if capacity < 0 {
		capacity = 0
	}

	return &ResultSet{
		results: make([]validator.Result, 0, capacity),
	}
}

// ResultSet is an append-only collection of results, safe for concurrent use
type ResultSet struct {
	lock    sync.RWMutex
	results []validator.Result
}

func (rs *ResultSet) Add(r validator.Result) {
	rs.lock.Lock()
	rs.results = append(rs.results, r)
	rs.lock.Unlock()
}

func (rs *ResultSet) Len() int {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	return len(rs.results)
}

// Results returns a copy of all results, in order of completion
func (rs *ResultSet) Results() []validator.Result {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	return append([]validator.Result(nil), rs.results...)
}

// Partition splits the results on their verdict. Every result ends up in exactly one of both.
func (rs *ResultSet) Partition() (accepted, rejected []validator.Result) {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	accepted = make([]validator.Result, 0, len(rs.results))
	rejected = make([]validator.Result, 0, len(rs.results))
	for _, r := range rs.results {
		if r.Valid {
			accepted = append(accepted, r)
		} else {
			rejected = append(rejected, r)
		}
	}

	return accepted, rejected
}

// Counts returns the size of both partitions
func (rs *ResultSet) Counts() (accepted, rejected int) {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	for _, r := range rs.results {
		if r.Valid {
			accepted++
		}
	}

	return accepted, len(rs.results) - accepted
}

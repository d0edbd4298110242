package persist

import (
	"context"
	"sync"
)

func NewMemory() Persister {
	return &Memory{
		m: &sync.Map{},
	}
}

type Memory struct {
	m *sync.Map
}

func (s *Memory) Store(ctx context.Context, r Record) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.m.Store(memoryKey(r), r)
	return nil
}

func (s *Memory) Range(ctx context.Context, cb RangeCallbackFn) error {
	var err error
	s.m.Range(func(_, value interface{}) bool {
		if err = ctx.Err(); err != nil {
			return false
		}

		r, ok := value.(Record)
		if !ok {
			return true // Ignoring non-recoverable problem
		}

		err = cb(r)
		return err == nil
	})

	return err
}

func (s *Memory) Close() error {
	return nil
}

func memoryKey(r Record) string {
	return string(r.Recipient) + `@` + r.Domain
}

package testutil

import (
	"context"
	"sync/atomic"
	"time"
)

// NewContext returns a context of which the Err() result can be controlled, to test code paths that check for
// cancellation between steps
func NewContext(parent context.Context) *Context {
	return &Context{
		parent: parent,
	}
}

type Context struct {
	parent    context.Context
	errEvalFn ErrEvalFn
}

type ErrEvalFn func(parent context.Context) error

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.parent.Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.parent.Done()
}

func (c *Context) SetParent(ctx context.Context) *Context {
	c.parent = ctx
	return c
}

// SetErrEval allows you to define a callback that can be use to influence when Err() returns an error
func (c *Context) SetErrEval(fn ErrEvalFn) {
	c.errEvalFn = fn
}

// ErrAfter makes Err() return err once it has been called more than n times
func (c *Context) ErrAfter(n int32, err error) *Context {
	var calls int32
	c.errEvalFn = func(parent context.Context) error {
		if atomic.AddInt32(&calls, 1) > n {
			return err
		}

		return parent.Err()
	}

	return c
}

func (c *Context) Err() error {
	if c.errEvalFn == nil {
		return c.parent.Err()
	}

	return c.errEvalFn(c.parent)
}

func (c *Context) Value(key interface{}) interface{} {
	return c.parent.Value(key)
}

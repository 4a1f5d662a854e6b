package main

import (
	"context"
	"fmt"

	"github.com/cobalt-rocks/mdpdf"
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input mdpdf.Input) (*mdpdf.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mdpdf.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// poolAdapter exposes an mdpdf.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *mdpdf.ConverterPool
}

// newConverterPool is the production Environment.NewPool.
func newConverterPool(size int, opts ...mdpdf.Option) Pool {
	return &poolAdapter{pool: mdpdf.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	c, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release returns a converter obtained from Acquire.
// Panics on any other type (programmer error).
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*mdpdf.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

func (a *poolAdapter) Close() error { return a.pool.Close() }

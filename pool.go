package mdpdf

import (
	"errors"
	"runtime"
	"sync"
)

const (
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browsers; each one costs about 200MB.
	MaxPoolSize = 8

	// cpuDivisor leaves half the CPUs to Chrome's child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool is closed")

// ConverterPool lends out up to Size converters, each owning its own
// browser. Converters are built on demand and reused after Release.
type ConverterPool struct {
	opts  []Option
	slots chan struct{} // one token per converter in use
	done  chan struct{} // closed by Close

	mu      sync.Mutex
	idle    []*Converter
	all     []*Converter
	created int
	closed  bool

	// newConverter is replaced in tests.
	newConverter func(opts ...Option) (*Converter, error)
}

// NewConverterPool returns a pool of at most n converters built with opts.
// n below 1 is treated as 1. Nothing starts until the first Acquire.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	n = max(n, MinPoolSize)
	return &ConverterPool{
		opts:         opts,
		slots:        make(chan struct{}, n),
		done:         make(chan struct{}),
		newConverter: NewConverter,
	}
}

// Acquire blocks until a converter is free, reusing an idle one or building
// a new one. A failed build gives its slot back.
func (p *ConverterPool) Acquire() (*Converter, error) {
	select {
	case <-p.done:
		return nil, ErrPoolClosed
	default:
	}

	select {
	case p.slots <- struct{}{}:
	case <-p.done:
		return nil, ErrPoolClosed
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.slots
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		c := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return c, nil
	}
	p.created++
	p.mu.Unlock()

	c, err := p.newConverter(p.opts...)

	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case err != nil:
		p.created--
		<-p.slots
		return nil, err
	case p.closed:
		_ = c.Close()
		return nil, ErrPoolClosed
	}
	p.all = append(p.all, c)
	return c, nil
}

// Release hands c back. After Close it does nothing.
func (p *ConverterPool) Release(c *Converter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.idle = append(p.idle, c)
	<-p.slots
}

// Close closes every converter the pool built and makes pending and later
// Acquire calls fail with ErrPoolClosed.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	converters := p.all
	p.all, p.idle = nil, nil
	p.mu.Unlock()

	var errs []error
	for _, c := range converters {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *ConverterPool) Size() int {
	return cap(p.slots)
}

// ResolvePoolSize returns workers when positive, otherwise half of
// GOMAXPROCS clamped to [MinPoolSize, MaxPoolSize]. The command line sets
// GOMAXPROCS from the container CPU quota first.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
}

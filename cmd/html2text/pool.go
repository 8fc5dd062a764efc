package main

import (
	"runtime"
	"sync"
)

// maxAutoWorkers caps the GOMAXPROCS-derived pool size.
const maxAutoWorkers = 8

// ConverterFactory builds one converter for a pool slot.
type ConverterFactory func() (Converter, error)

// ConverterPool hands out up to size converters for parallel processing.
// Slots are filled lazily on first acquire; the size bounds how many
// conversions run at once.
type ConverterPool struct {
	size    int
	factory ConverterFactory
	sem     chan Converter
	mu      sync.Mutex
	created int
	lastErr error
}

// sharedFactory fills every pool slot with the same converter.
// A *html2text.Converter is safe for concurrent Convert calls.
func sharedFactory(conv Converter) ConverterFactory {
	return func() (Converter, error) {
		return conv, nil
	}
}

// NewConverterPool creates a pool with capacity for n converters.
func NewConverterPool(n int, factory ConverterFactory) *ConverterPool {
	if n < 1 {
		n = 1
	}

	return &ConverterPool{
		size:    n,
		factory: factory,
		sem:     make(chan Converter, n),
	}
}

// Compile-time check that ConverterPool implements Pool.
var _ Pool = (*ConverterPool)(nil)

// Acquire gets a converter from the pool, creating one if needed.
// Blocks if all converters are in use. Returns nil if creation fails;
// the failure is available from Err.
func (p *ConverterPool) Acquire() Converter {
	select {
	case conv := <-p.sem:
		return conv
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		conv, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.lastErr = err
			p.mu.Unlock()
			return nil
		}
		return conv
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a converter to the pool.
func (p *ConverterPool) Release(conv Converter) {
	if conv == nil {
		return
	}
	p.sem <- conv
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// Err returns the last converter creation error, if any.
func (p *ConverterPool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// resolvePoolSize determines the pool size.
// Priority: explicit flag > HTML2TEXT_WORKERS > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers, envWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if envWorkers > 0 {
		return envWorkers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > maxAutoWorkers {
		return maxAutoWorkers
	}
	return n
}

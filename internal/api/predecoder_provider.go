package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/latticeforge/pinball/internal/predecoder"
)

// PredecoderProvider resolves a (variant, distance) pair to a Decoder,
// caching construction the way CachedEngineProvider caches a loaded
// inference engine by model path: geometry.For interns the catalog per
// distance already, but the Decoder itself still owns per-block state
// (PrevRound, BlockCorrection) that must not be shared across concurrent
// requests.
type PredecoderProvider interface {
	WithDecoder(ctx context.Context, variant predecoder.Variant, distance int, fn func(predecoder.Decoder) error) error
}

type decoderKey struct {
	variant  predecoder.Variant
	distance int
}

// CachedDecoderProvider hands out a dedicated Decoder per (variant,
// distance, slot), keeping a small pool per key so concurrent requests for
// the same code distance don't serialize on one Scheduler's mutable state.
type CachedDecoderProvider struct {
	poolSize int

	mu    sync.Mutex
	pools map[decoderKey]chan predecoder.Decoder
}

// NewCachedDecoderProvider builds a provider whose per-key pool holds up
// to poolSize decoders; poolSize <= 0 defaults to 4.
func NewCachedDecoderProvider(poolSize int) *CachedDecoderProvider {
	if poolSize <= 0 {
		poolSize = 4
	}
	return &CachedDecoderProvider{
		poolSize: poolSize,
		pools:    make(map[decoderKey]chan predecoder.Decoder),
	}
}

func (p *CachedDecoderProvider) WithDecoder(ctx context.Context, variant predecoder.Variant, distance int, fn func(predecoder.Decoder) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pool := p.poolFor(decoderKey{variant: variant, distance: distance})

	var dec predecoder.Decoder
	select {
	case dec = <-pool:
	default:
		d, err := predecoder.New(variant, distance)
		if err != nil {
			return fmt.Errorf("predecoder provider: %w", err)
		}
		dec = d
	}

	dec.Reset()
	err := fn(dec)

	select {
	case pool <- dec:
	default:
		// pool full, drop this decoder rather than block
	}
	return err
}

func (p *CachedDecoderProvider) poolFor(key decoderKey) chan predecoder.Decoder {
	p.mu.Lock()
	defer p.mu.Unlock()
	pool, ok := p.pools[key]
	if !ok {
		pool = make(chan predecoder.Decoder, p.poolSize)
		p.pools[key] = pool
	}
	return pool
}

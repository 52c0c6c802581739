package api

import (
	"context"
	"testing"

	"github.com/latticeforge/pinball/internal/predecoder"
)

func TestCachedDecoderProviderReusesAndResets(t *testing.T) {
	p := NewCachedDecoderProvider(1)
	ctx := context.Background()

	rounds := make([][]byte, 3)
	for i := range rounds {
		rounds[i] = make([]byte, 4*1)
	}

	for i := 0; i < 3; i++ {
		err := p.WithDecoder(ctx, predecoder.Pinball, 3, func(dec predecoder.Decoder) error {
			_, err := dec.DecodeBatch(ctx, rounds)
			return err
		})
		if err != nil {
			t.Fatalf("WithDecoder iteration %d: %v", i, err)
		}
	}
}

func TestCachedDecoderProviderRejectsUnknownVariant(t *testing.T) {
	p := NewCachedDecoderProvider(1)
	err := p.WithDecoder(context.Background(), "bogus", 3, func(predecoder.Decoder) error { return nil })
	if err == nil {
		t.Fatal("expected an error for an unknown variant")
	}
}

package barcode

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"paperarchive/internal/ingest"
)

type pageKey struct {
	side  ingest.Side
	index int
}

// Cache answers Decode from results computed up front. Pages that were not
// prefetched are decoded on demand by the fallback decoder.
type Cache struct {
	results  map[pageKey][]string
	fallback ingest.Decoder
}

// Prefetch decodes pages concurrently, at most workers at a time (GOMAXPROCS
// when workers <= 0). newDecoder is called once per page so decoders are never
// shared between goroutines. The first failure cancels the remaining work.
func Prefetch(ctx context.Context, pages []ingest.Page, workers int, newDecoder func() ingest.Decoder) (*Cache, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([][]string, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, page := range pages {
		g.Go(func() error {
			codes, err := newDecoder().Decode(gctx, page)
			if err != nil {
				return fmt.Errorf("prefetch %s page %d: %w", page.Side, page.Index+1, err)
			}
			results[i] = codes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cache := &Cache{results: make(map[pageKey][]string, len(pages)), fallback: newDecoder()}
	for i, page := range pages {
		cache.results[pageKey{page.Side, page.Index}] = results[i]
	}
	return cache, nil
}

// Decode implements ingest.Decoder.
func (c *Cache) Decode(ctx context.Context, page ingest.Page) ([]string, error) {
	if codes, ok := c.results[pageKey{page.Side, page.Index}]; ok {
		return codes, nil
	}
	return c.fallback.Decode(ctx, page)
}

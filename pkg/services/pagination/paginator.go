package pagination

import (
	"context"

	"github.com/rs/zerolog"
)

// Page is one page of a listing endpoint.
type Page[T any] struct {
	Items []T
	Last  bool
	// TotalPages is informational only; the walk ends on Last.
	TotalPages int
}

// FetchFunc retrieves the page with the given zero-based index.
type FetchFunc[T any] func(ctx context.Context, pageNo int) (Page[T], error)

// ExtractFunc maps an item to the accumulated value, or drops it when keep is false.
type ExtractFunc[T, R any] func(item T) (value R, keep bool)

// Collect walks a paginated listing from page 0 until a page reports Last,
// accumulating extracted values in page order then within-page order.
// When a fetch fails, the values accumulated so far are returned together
// with the error.
func Collect[T, R any](ctx context.Context, fetch FetchFunc[T], extract ExtractFunc[T, R]) ([]R, error) {
	logger := zerolog.Ctx(ctx)

	var acc []R
	for pageNo := 0; ; pageNo++ {
		if err := ctx.Err(); err != nil {
			return acc, err
		}

		page, err := fetch(ctx, pageNo)
		if err != nil {
			return acc, err
		}

		kept := 0
		for _, item := range page.Items {
			if v, ok := extract(item); ok {
				acc = append(acc, v)
				kept++
			}
		}

		logger.Debug().
			Int("page", pageNo).
			Int("items", len(page.Items)).
			Int("kept", kept).
			Bool("last", page.Last).
			Int("total_pages", page.TotalPages).
			Msg("page fetched")

		if page.Last {
			return acc, nil
		}
		if len(page.Items) == 0 {
			logger.Warn().
				Int("page", pageNo).
				Int("total_pages", page.TotalPages).
				Msg("empty page not marked last, listing continues")
		}
	}
}

package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/example/fates/internal/testfixtures"
)

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	ctx := context.Background()
	h := testfixtures.NewSQLiteHarness(t)

	const writers, perWriter = 4, 25

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < writers; w++ {
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				if err := h.KeyValues.Set(gctx, fmt.Sprintf("w%d-k%02d", w, i), "v"); err != nil {
					return err
				}
			}
			return nil
		})
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				if _, err := h.KeyValues.List(gctx); err != nil {
					return err
				}
				if _, err := h.KeyValues.Get(gctx, fmt.Sprintf("w%d-k%02d", w, i), ""); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	items, err := h.KeyValues.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, writers*perWriter)
}

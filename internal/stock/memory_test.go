package stock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedger_AdjustQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("DecrementAndIncrement", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Seed(1, 10, 2)

		qty, err := l.AdjustQuantity(ctx, 1, -4)
		require.NoError(t, err)
		assert.Equal(t, 6, qty)

		qty, err = l.AdjustQuantity(ctx, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, 10, qty)
	})

	t.Run("Insufficient", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Seed(1, 3, 0)

		_, err := l.AdjustQuantity(ctx, 1, -5)

		var insufficient *InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(1), insufficient.VariantID)
		assert.Equal(t, 5, insufficient.Requested)
		assert.Equal(t, 3, insufficient.Available)

		// Entry untouched after the failed adjustment.
		qty, err := l.GetQuantity(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, qty)
	})

	t.Run("NotFound", func(t *testing.T) {
		l := NewMemoryLedger()
		_, err := l.AdjustQuantity(ctx, 99, -1)
		assert.ErrorIs(t, err, ErrStockNotFound)

		_, err = l.GetQuantity(ctx, 99)
		assert.ErrorIs(t, err, ErrStockNotFound)
	})

	t.Run("ExactlyToZero", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Seed(1, 5, 0)

		qty, err := l.AdjustQuantity(ctx, 1, -5)
		require.NoError(t, err)
		assert.Equal(t, 0, qty)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		l := NewMemoryLedger()
		l.Seed(1, 5, 0)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := l.AdjustQuantity(cancelled, 1, -1)
		assert.ErrorIs(t, err, context.Canceled)

		qty, _ := l.GetQuantity(ctx, 1)
		assert.Equal(t, 5, qty)
	})
}

func TestMemoryLedger_GetQuantity_Idempotent(t *testing.T) {
	l := NewMemoryLedger()
	l.Seed(1, 7, 0)

	a, err := l.GetQuantity(context.Background(), 1)
	require.NoError(t, err)
	b, err := l.GetQuantity(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// Concurrent decrements against one variant must never drive the quantity
// negative: exactly `initial` single-unit decrements may succeed.
func TestMemoryLedger_ConcurrentDecrements(t *testing.T) {
	const initial = 100
	const workers = 250

	l := NewMemoryLedger()
	l.Seed(1, initial, 0)

	var wg sync.WaitGroup
	var succeeded, insufficient int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.AdjustQuantity(context.Background(), 1, -1)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			default:
				var ise *InsufficientStockError
				require.True(t, errors.As(err, &ise))
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(initial), succeeded)
	assert.Equal(t, int64(workers-initial), insufficient)

	qty, err := l.GetQuantity(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

// Mixed increments and decrements must account exactly.
func TestMemoryLedger_ConcurrentMixedAdjustments(t *testing.T) {
	l := NewMemoryLedger()
	l.Seed(1, 1000, 0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = l.AdjustQuantity(context.Background(), 1, -3)
		}()
		go func() {
			defer wg.Done()
			_, _ = l.AdjustQuantity(context.Background(), 1, 3)
		}()
	}
	wg.Wait()

	qty, err := l.GetQuantity(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1000, qty)
}

func TestMemoryLedger_ListBelowThreshold(t *testing.T) {
	l := NewMemoryLedger()
	l.Seed(1, 0, 5)
	l.Seed(2, 3, 5)
	l.Seed(3, 10, 5)
	l.Seed(4, 3, 5)

	entries, err := l.ListBelowThreshold(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(1), entries[0].VariantID)
	assert.Equal(t, int64(2), entries[1].VariantID)
	assert.Equal(t, int64(4), entries[2].VariantID)

	limited, err := l.ListBelowThreshold(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_AddAndUpdate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	snap, clamped, err := svc.AddLine(ctx, "c1", &AddLineRequest{ProductID: "p1", UnitPrice: price("150"), MaxQuantity: 5})
	require.NoError(t, err)
	assert.False(t, clamped)
	assert.Equal(t, 1, snap.Totals.ItemCount)

	snap, err = svc.SetQuantity(ctx, "c1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, "450", snap.Totals.Subtotal.String())

	snap, err = svc.RemoveLine(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestService_AddLineClampSignal(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, _, err := svc.AddLine(ctx, "c1", &AddLineRequest{ProductID: "p1", UnitPrice: price("10"), MaxQuantity: 1})
	require.NoError(t, err)

	snap, clamped, err := svc.AddLine(ctx, "c1", &AddLineRequest{ProductID: "p1", UnitPrice: price("10"), MaxQuantity: 1})
	require.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, 1, snap.Totals.ItemCount)
}

func TestService_RejectsBadInput(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, _, err := svc.AddLine(ctx, "c1", &AddLineRequest{ProductID: "p1", UnitPrice: price("0"), MaxQuantity: 1})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, _, err = svc.AddLine(ctx, "c1", &AddLineRequest{UnitPrice: price("10"), MaxQuantity: 1})
	assert.ErrorIs(t, err, ErrProductRequired)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrCustomerRequired)
}

func TestService_CustomersAreIsolated(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, _, err := svc.AddLine(ctx, "c1", &AddLineRequest{ProductID: "p1", UnitPrice: price("10"), MaxQuantity: 5})
	require.NoError(t, err)

	snap, err := svc.Get(ctx, "c2")
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestService_ConcurrentAddsAreNotLost(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = svc.AddLine(ctx, "c1", &AddLineRequest{ProductID: "p1", UnitPrice: price("10"), MaxQuantity: 100})
		}()
	}
	wg.Wait()

	snap, err := svc.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 20, snap.Totals.ItemCount)
}

func TestService_Clear(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, _, err := svc.AddLine(ctx, "c1", &AddLineRequest{ProductID: "p1", UnitPrice: price("10"), MaxQuantity: 5})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "c1"))

	snap, err := svc.Snapshot(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

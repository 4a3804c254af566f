package address

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRepository(client, 24*time.Hour), mr
}

func TestService_PersistsAcrossLoads(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	svc := NewService(repo)
	addr, err := svc.Create(ctx, "sess-1", validFields())
	require.NoError(t, err)
	assert.True(t, mr.Exists("address:session:sess-1"))

	// A fresh service over the same store sees the same book
	reloaded := NewService(repo)
	selected, err := reloaded.Selected(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, addr.ID, selected.ID)
}

func TestService_FailedValidationIsNotSaved(t *testing.T) {
	repo, mr := setupTestRedis(t)
	svc := NewService(repo)

	fields := validFields()
	fields.FullName = "John3"
	_, err := svc.Create(context.Background(), "sess-1", fields)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, mr.Exists("address:session:sess-1"))
}

func TestService_SelectAndDelete(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	a, err := svc.Create(ctx, "c1", validFields())
	require.NoError(t, err)
	b, err := svc.Create(ctx, "c1", validFields())
	require.NoError(t, err)

	view, err := svc.Select(ctx, "c1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, view.SelectedID)

	view, err = svc.Delete(ctx, "c1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, view.SelectedID)
	assert.Len(t, view.Addresses, 1)
}

func TestService_SetDefaultUnknown(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.SetDefault(context.Background(), "c1", "missing")

	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestService_RequiresCustomer(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.List(context.Background(), "")

	assert.ErrorIs(t, err, ErrCustomerRequired)
}

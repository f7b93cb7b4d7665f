package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/walldriyan/banana-sub000/internal/catalog"
	"github.com/walldriyan/banana-sub000/internal/discount"
)

type fakeStore struct {
	byID     map[uuid.UUID]catalog.Product
	getCalls int
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (catalog.Product, error) {
	f.getCalls++
	p, ok := f.byID[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) List(context.Context, int32, int32) ([]catalog.Product, int64, error) {
	out := make([]catalog.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) NamesByID(_ context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if p, ok := f.byID[id]; ok {
			names[raw] = p.Name
		}
	}
	return names, nil
}

func newTestService(t *testing.T) (*catalog.Service, *fakeStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &fakeStore{byID: make(map[uuid.UUID]catalog.Product)}
	svc := &catalog.Service{
		Store:  store,
		Cache:  catalog.NewCache(client, time.Minute),
		Logger: zerolog.Nop(),
	}
	return svc, store
}

func TestGetUsesCache(t *testing.T) {
	svc, store := newTestService(t)
	id := uuid.New()
	store.byID[id] = catalog.Product{ID: id.String(), Name: "Widget", Price: 1500}

	p, err := svc.Get(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, "Widget", p.Name)
	require.Equal(t, 1, store.getCalls)

	p, err = svc.Get(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, "Widget", p.Name)
	require.Equal(t, 1, store.getCalls)
}

func TestGetInvalidID(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestGetMissingProduct(t *testing.T) {
	svc, store := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, catalog.ErrNotFound)
	require.Equal(t, 1, store.getCalls)
}

func TestResolverForBuyGetTargets(t *testing.T) {
	svc, store := newTestService(t)
	target := uuid.New()
	store.byID[target] = catalog.Product{ID: target.String(), Name: "Free Mug", Price: 500}

	set := &discount.DiscountSet{
		BuyGetRules: []discount.BuyGetRule{
			{BuyProductID: uuid.NewString(), BuyQty: 2, GetProductID: target.String(), GetQty: 1},
		},
	}
	resolver := svc.ResolverFor(context.Background(), set)
	require.NotNil(t, resolver)
	require.Equal(t, "Free Mug", resolver.ProductName(target.String()))
}

func TestResolverForNoBuyGetRules(t *testing.T) {
	svc, _ := newTestService(t)
	require.Nil(t, svc.ResolverFor(context.Background(), &discount.DiscountSet{}))
}

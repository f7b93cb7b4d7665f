package campaign_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/walldriyan/banana-sub000/internal/campaign"
	"github.com/walldriyan/banana-sub000/internal/discount"
)

type fakeStore struct {
	byID     map[uuid.UUID]campaign.Record
	getCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[uuid.UUID]campaign.Record)}
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (campaign.Record, error) {
	f.getCalls++
	rec, ok := f.byID[id]
	if !ok {
		return campaign.Record{}, campaign.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) GetDefault(context.Context) (campaign.Record, error) {
	for _, rec := range f.byID {
		if rec.Set.Default && rec.Set.Active {
			return rec, nil
		}
	}
	return campaign.Record{}, campaign.ErrNotFound
}

func (f *fakeStore) List(context.Context, int32, int32) ([]campaign.Record, int64, error) {
	out := make([]campaign.Record, 0, len(f.byID))
	for _, rec := range f.byID {
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) Create(_ context.Context, set discount.DiscountSet) (campaign.Record, error) {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	rec := campaign.Record{Set: set, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.byID[set.ID] = rec
	return rec, nil
}

func (f *fakeStore) Update(_ context.Context, set discount.DiscountSet) (campaign.Record, error) {
	if _, ok := f.byID[set.ID]; !ok {
		return campaign.Record{}, campaign.ErrNotFound
	}
	rec := campaign.Record{Set: set, UpdatedAt: time.Now()}
	f.byID[set.ID] = rec
	return rec, nil
}

func (f *fakeStore) SetActive(_ context.Context, id uuid.UUID, active bool) (campaign.Record, error) {
	rec, ok := f.byID[id]
	if !ok {
		return campaign.Record{}, campaign.ErrNotFound
	}
	rec.Set.Active = active
	f.byID[id] = rec
	return rec, nil
}

func newTestService(t *testing.T) (*campaign.Service, *fakeStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := newFakeStore()
	svc := &campaign.Service{
		Store:    store,
		Cache:    campaign.NewCache(client, time.Minute),
		Validate: validator.New(),
		Logger:   zerolog.Nop(),
	}
	return svc, store
}

func validInput() campaign.Input {
	return campaign.Input{
		Name:   "Autumn",
		Active: true,
		DefaultLineValueRule: &discount.RuleConfig{
			Name: "10% over 400", Enabled: true,
			Type: discount.RuleTypePercentage, Value: 10,
		},
	}
}

func TestServiceCreateAndGetUsesCache(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, rec.Set.ID)

	first, err := svc.Get(ctx, rec.Set.ID)
	require.NoError(t, err)
	require.Equal(t, "Autumn", first.Set.Name)
	require.Equal(t, 1, store.getCalls)

	// Second read is served from Redis.
	second, err := svc.Get(ctx, rec.Set.ID)
	require.NoError(t, err)
	require.Equal(t, first.Set.ID, second.Set.ID)
	require.Equal(t, 1, store.getCalls)
}

func TestServiceUpdateBustsCacheAndNotifies(t *testing.T) {
	svc, store := newTestService(t)
	var changed []string
	svc.OnChange = func(id string) { changed = append(changed, id) }
	ctx := context.Background()

	rec, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	_, err = svc.Get(ctx, rec.Set.ID)
	require.NoError(t, err)

	in := validInput()
	in.Name = "Winter"
	_, err = svc.Update(ctx, rec.Set.ID, in)
	require.NoError(t, err)
	require.Contains(t, changed, rec.Set.ID.String())

	after, err := svc.Get(ctx, rec.Set.ID)
	require.NoError(t, err)
	require.Equal(t, "Winter", after.Set.Name)
	require.Equal(t, 2, store.getCalls)
}

func TestServiceRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := validInput()
	in.Name = ""
	_, err := svc.Create(ctx, in)
	require.ErrorIs(t, err, campaign.ErrInvalidInput)

	in = validInput()
	in.DefaultLineValueRule = &discount.RuleConfig{Name: "bad", Enabled: true, Type: discount.RuleTypePercentage, Value: 130}
	_, err = svc.Create(ctx, in)
	require.ErrorIs(t, err, campaign.ErrInvalidInput)

	in = validInput()
	in.BuyGetRules = []discount.BuyGetRule{{Name: "bg", Enabled: true, BuyProductID: "A", BuyQty: 0, GetProductID: "B", GetQty: 1, DiscountType: discount.RuleTypeFixed, DiscountValue: 10}}
	_, err = svc.Create(ctx, in)
	require.ErrorIs(t, err, campaign.ErrInvalidInput)
}

func TestServiceResolve(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := validInput()
	in.Default = true
	rec, err := svc.Create(ctx, in)
	require.NoError(t, err)

	// Blank id falls back to the active default campaign.
	def, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	require.Equal(t, rec.Set.ID, def.Set.ID)

	byID, err := svc.Resolve(ctx, rec.Set.ID.String())
	require.NoError(t, err)
	require.Equal(t, rec.Set.ID, byID.Set.ID)

	_, err = svc.Resolve(ctx, "not-a-uuid")
	require.ErrorIs(t, err, campaign.ErrInvalidInput)

	_, err = svc.Resolve(ctx, uuid.NewString())
	require.True(t, errors.Is(err, campaign.ErrNotFound))
}

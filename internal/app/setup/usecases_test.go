package setup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kvstore"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/memstore"
	"github.com/LavaJover/voltz-checkout-service/internal/usecase"
)

type wiredUseCases struct {
	repo       *memstore.StoreRepository
	kv         *kvstore.MemoryStore
	stores     *usecase.StoreContexts
	activation *usecase.ActivationService
	settings   *usecase.CurrencySettingsService
}

func newWiredUseCases() *wiredUseCases {
	w := &wiredUseCases{
		repo: memstore.NewStoreRepository(),
		kv:   kvstore.NewMemoryStore(),
	}
	log := zap.NewNop()
	w.stores = usecase.NewStoreContexts(usecase.StoreDeps{Repo: w.repo, KV: w.kv})
	w.activation = usecase.NewActivationService(w.kv, nil, nil, nil)
	w.activation.Subscribe(mirrorSteps(w.stores, nil, log))
	w.settings = usecase.NewCurrencySettingsService(w.kv, nil, nil)
	w.stores.OnCreate(func(sc *usecase.StoreContext) {
		sc.Subscribe(forgetDeletedStores(w.activation, w.settings, log))
	})
	return w
}

func TestMirrorStepsFollowsTracker(t *testing.T) {
	ctx := context.Background()
	w := newWiredUseCases()

	store, err := w.stores.For("owner-1").Create(ctx, "Loja")
	require.NoError(t, err)
	tracker := w.activation.Tracker(ctx, store.ID)

	require.NoError(t, tracker.UpdateStatus(ctx, domain.StepBilling, domain.StepCompleted))
	require.NoError(t, tracker.UpdateStatus(ctx, domain.StepDomain, domain.StepCompleted))

	got, err := w.repo.GetByID(ctx, store.ID)
	require.NoError(t, err)
	assert.True(t, got.Settings.Steps.Billing)
	assert.True(t, got.Settings.Steps.Domain)

	require.NoError(t, tracker.Reset(ctx))
	got, err = w.repo.GetByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepCompletion{}, got.Settings.Steps)
}

func TestForgetDeletedStores(t *testing.T) {
	ctx := context.Background()
	w := newWiredUseCases()
	sc := w.stores.For("owner-1")

	doomed, err := sc.Create(ctx, "Removida")
	require.NoError(t, err)
	kept, err := sc.Create(ctx, "Mantida")
	require.NoError(t, err)

	for _, id := range []string{doomed.ID, kept.ID} {
		require.NoError(t, w.activation.Tracker(ctx, id).UpdateStatus(ctx, domain.StepBilling, domain.StepCompleted))
		_, err := w.settings.GetSettings(ctx, id)
		require.NoError(t, err)
	}

	require.NoError(t, sc.Delete(ctx, doomed.ID))

	for _, key := range []string{usecase.ActivationStepsKey, usecase.CurrencySettingsKey} {
		_, ok, err := w.kv.Get(ctx, "store:"+doomed.ID+":"+key)
		require.NoError(t, err)
		assert.False(t, ok, "%s of the deleted store is removed", key)

		_, ok, err = w.kv.Get(ctx, "store:"+kept.ID+":"+key)
		require.NoError(t, err)
		assert.True(t, ok, "%s of other stores is kept", key)
	}
	assert.Equal(t, domain.DefaultActivationSteps(), w.activation.Tracker(ctx, doomed.ID).Steps())
}

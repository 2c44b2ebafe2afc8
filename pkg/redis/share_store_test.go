package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryKV) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.values[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	value, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func newTestStore(kv *memoryKV) *ShareStore {
	return &ShareStore{
		kv:     kv,
		ttl:    24 * time.Hour,
		logger: ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}),
		now:    func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) },
	}
}

func TestShareStore_SaveAndLoad(t *testing.T) {
	kv := newMemoryKV()
	store := newTestStore(kv)
	bundle := &models.ExportBundle{
		ExportVersion:   "1.0",
		ExportedFrom:    models.ExportSource{WorkspaceID: "ws-src"},
		CocktailRecipes: []models.CocktailRecipe{{ID: "r1", Name: "Mojito"}},
	}

	shared, err := store.Save(context.Background(), bundle)
	require.NoError(t, err)
	assert.NotEmpty(t, shared.ShareID)
	assert.Equal(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), shared.ExpiresAt)
	assert.Equal(t, 24*time.Hour, kv.ttls[sharedExportPrefix+shared.ShareID])

	loaded, err := store.Load(context.Background(), shared.ShareID)
	require.NoError(t, err)
	assert.Equal(t, "Mojito", loaded.CocktailRecipes[0].Name)
	assert.Equal(t, "ws-src", loaded.ExportedFrom.WorkspaceID)
}

func TestShareStore_LoadUnknown(t *testing.T) {
	_, err := newTestStore(newMemoryKV()).Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrShareNotFound)
}

func TestShareStore_Failures(t *testing.T) {
	kv := newMemoryKV()
	kv.err = errors.New("connection refused")
	store := newTestStore(kv)

	_, err := store.Save(context.Background(), &models.ExportBundle{})
	assert.ErrorContains(t, err, "failed to store shared export")

	_, err = store.Load(context.Background(), "id")
	assert.ErrorContains(t, err, "failed to load shared export")
	assert.NotErrorIs(t, err, ErrShareNotFound)
}

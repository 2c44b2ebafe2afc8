package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sharedExportPrefix = "mint:shared-export:"

// ErrShareNotFound is returned for unknown or expired share ids.
var ErrShareNotFound = errors.New("shared export not found")

type keyValue interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// ShareStore keeps exported bundles for a limited time so another workspace can fetch them by id.
type ShareStore struct {
	kv     keyValue
	ttl    time.Duration
	logger ectologger.Logger
	now    func() time.Time
}

func NewShareStore(client *Client, ttl time.Duration, logger ectologger.Logger) *ShareStore {
	return &ShareStore{
		kv:     client.rdb,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ShareStore) Save(ctx context.Context, bundle *models.ExportBundle) (*models.SharedExport, error) {
	ctx, span := tracing.StartSpan(ctx, "ShareStore.Save")
	defer span.End()

	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shared export: %w", err)
	}

	shareID := uuid.New().String()
	if err := s.kv.Set(ctx, sharedExportPrefix+shareID, data, s.ttl).Err(); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to store shared export")
		return nil, fmt.Errorf("failed to store shared export: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"share_id": shareID,
		"ttl":      s.ttl.String(),
	}).Debug("stored shared export")

	return &models.SharedExport{
		ShareID:   shareID,
		ExpiresAt: s.now().UTC().Add(s.ttl),
		Bundle:    bundle,
	}, nil
}

func (s *ShareStore) Load(ctx context.Context, shareID string) (*models.ExportBundle, error) {
	ctx, span := tracing.StartSpan(ctx, "ShareStore.Load")
	defer span.End()

	data, err := s.kv.Get(ctx, sharedExportPrefix+shareID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("share_id", shareID).Error("failed to load shared export")
		return nil, fmt.Errorf("failed to load shared export: %w", err)
	}

	var bundle models.ExportBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode shared export: %w", err)
	}

	return &bundle, nil
}

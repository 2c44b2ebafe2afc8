package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/kafka"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/reconcile"
)

const (
	TypeBundleExported = "bundle.exported"
	TypeBundleImported = "bundle.imported"
)

type BundleExported struct {
	Type          string    `json:"type"`
	WorkspaceID   string    `json:"workspace_id"`
	ExportVersion string    `json:"export_version"`
	CocktailCount int       `json:"cocktail_count"`
	Shared        bool      `json:"shared"`
	Timestamp     time.Time `json:"timestamp"`
}

type BundleImported struct {
	Type              string                    `json:"type"`
	WorkspaceID       string                    `json:"workspace_id"`
	SourceWorkspaceID string                    `json:"source_workspace_id"`
	Imported          int                       `json:"imported"`
	Created           map[models.EntityKind]int `json:"created"`
	Reused            map[models.EntityKind]int `json:"reused"`
	Skipped           int                       `json:"skipped"`
	ErrorCount        int                       `json:"error_count"`
	Timestamp         time.Time                 `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Emitter publishes exchange events. Emission is best-effort: failures are
// logged and never returned. A nil publisher disables emission.
type Emitter struct {
	publisher Publisher
	logger    ectologger.Logger
	now       func() time.Time
}

func NewEmitter(publisher Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (e *Emitter) BundleExported(ctx context.Context, workspaceID string, b *models.ExportBundle, shared bool) {
	e.emit(ctx, workspaceID, TypeBundleExported, &BundleExported{
		Type:          TypeBundleExported,
		WorkspaceID:   workspaceID,
		ExportVersion: b.ExportVersion,
		CocktailCount: len(b.CocktailRecipes),
		Shared:        shared,
		Timestamp:     e.now().UTC(),
	})
}

func (e *Emitter) BundleImported(ctx context.Context, workspaceID string, b *models.ExportBundle, result *reconcile.Result) {
	e.emit(ctx, workspaceID, TypeBundleImported, &BundleImported{
		Type:              TypeBundleImported,
		WorkspaceID:       workspaceID,
		SourceWorkspaceID: b.ExportedFrom.WorkspaceID,
		Imported:          result.Imported.Cocktails,
		Created:           result.Created,
		Reused:            result.Reused,
		Skipped:           result.Skipped,
		ErrorCount:        len(result.Errors),
		Timestamp:         e.now().UTC(),
	})
}

func (e *Emitter) emit(ctx context.Context, workspaceID, eventType string, event any) {
	if e.publisher == nil {
		return
	}

	err := e.publisher.Publish(ctx, kafka.Message{
		Key:   workspaceID,
		Value: event,
		Headers: map[string]string{
			"type":         eventType,
			"workspace_id": workspaceID,
		},
	})
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("type", eventType).Warn("failed to emit exchange event")
	}
}

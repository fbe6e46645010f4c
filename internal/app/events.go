package app

import (
	"context"
	"time"

	"github.com/melangjewelers/catalog/internal/domain"
	"go.uber.org/zap"
)

const TopicCatalogChanged = "catalog.changed"

// ChangeEvent describes one successful catalog mutation.
type ChangeEvent struct {
	Actor  string
	Action string // created / updated / deleted
	Entity string // product / home_page / about_page / user
	Detail string
}

func (a *Application) initEvents() {
	if err := a.bus.SubscribeAsync(TopicCatalogChanged, a.recordAudit, false); err != nil {
		zap.L().Error("failed to subscribe audit recorder", zap.Error(err))
	}
}

// PublishChange emits a catalog mutation event. Fire and forget: audit
// recording must never fail the request that triggered it.
func (a *Application) PublishChange(ev ChangeEvent) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(TopicCatalogChanged, ev)
}

func (a *Application) recordAudit(ev ChangeEvent) {
	if err := a.gormDB.Create(&domain.AuditLog{
		Actor:   ev.Actor,
		Action:  ev.Action,
		Entity:  ev.Entity,
		Detail:  ev.Detail,
		OptTime: time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to record audit log", zap.Error(err))
	}
}

// AsyncDeleteObject removes an object from the store on the worker pool.
// Used when an image is replaced or its row deleted; a leftover object is
// harmless and gets picked up by the orphan sweep.
func (a *Application) AsyncDeleteObject(key string) {
	if key == "" {
		return
	}
	task := func() {
		if err := a.store.Delete(context.Background(), key); err != nil {
			zap.L().Warn("failed to delete stored object", zap.String("key", key), zap.Error(err))
		}
	}
	if a.pool == nil {
		task()
		return
	}
	if err := a.pool.Submit(task); err != nil {
		zap.L().Warn("failed to submit object deletion", zap.String("key", key), zap.Error(err))
	}
}

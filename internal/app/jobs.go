package app

import (
	"context"
	"time"

	"github.com/melangjewelers/catalog/internal/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@daily", func() {
		if err := a.SweepOrphanObjects(context.Background()); err != nil {
			zap.L().Error("orphan image sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.AuditLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}
}

func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.sched.Start()
	go func() {
		<-ctx.Done()
		a.sched.Stop()
	}()
}

// SweepOrphanObjects deletes stored objects no row references anymore.
// Uploads whose follow-up database write failed, and images replaced while
// the async delete was lost, end up here.
func (a *Application) SweepOrphanObjects(ctx context.Context) error {
	keys, err := a.store.List(ctx)
	if err != nil {
		return err
	}

	referenced := make(map[string]struct{})

	var productKeys []string
	if err := a.gormDB.Model(&domain.Product{}).Pluck("image_key", &productKeys).Error; err != nil {
		return err
	}
	for _, k := range productKeys {
		referenced[k] = struct{}{}
	}

	var home domain.HomePage
	if err := a.gormDB.Where("id = ?", domain.SingletonID).First(&home).Error; err == nil {
		if home.Banner1Key != nil {
			referenced[*home.Banner1Key] = struct{}{}
		}
		if home.Banner2Key != nil {
			referenced[*home.Banner2Key] = struct{}{}
		}
	}

	var about domain.AboutPage
	if err := a.gormDB.Where("id = ?", domain.SingletonID).First(&about).Error; err == nil {
		referenced[about.BannerKey] = struct{}{}
		referenced[about.ImageKey] = struct{}{}
	}

	var removed int
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		if err := a.store.Delete(ctx, key); err != nil {
			zap.L().Warn("sweep: failed to delete orphan", zap.String("key", key), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		zap.L().Info("orphan image sweep completed", zap.Int("removed", removed))
	}
	return nil
}

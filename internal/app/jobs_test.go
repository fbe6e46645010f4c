package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/melangjewelers/catalog/config"
	"github.com/melangjewelers/catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	workdir := t.TempDir()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = workdir
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = "test.db"
	cfg.Storage.Type = "local"
	cfg.Storage.Dir = filepath.Join(workdir, "uploads")
	cfg.Storage.PublicURL = "http://test.local/uploads"

	application := NewApplication(cfg)
	application.Init(cfg)
	t.Cleanup(application.Release)
	return application
}

func TestSweepOrphanObjects(t *testing.T) {
	a := newTestApplication(t)
	ctx := context.Background()

	put := func(key string) {
		_, err := a.store.Put(ctx, key, "image/png", strings.NewReader("bytes"))
		require.NoError(t, err)
	}
	put("products/keep.png")
	put("products/orphan.png")
	put("banners/keep.png")
	put("banners/orphan.png")

	require.NoError(t, a.gormDB.Create(&domain.Product{
		Name:     "Gold Ring",
		Category: "rings",
		ImageURL: a.store.URL("products/keep.png"),
		ImageKey: "products/keep.png",
	}).Error)

	bannerKey := "banners/keep.png"
	require.NoError(t, a.gormDB.Model(&domain.HomePage{}).
		Where("id = ?", domain.SingletonID).
		Update("banner1_key", &bannerKey).Error)

	require.NoError(t, a.SweepOrphanObjects(ctx))

	keys, err := a.store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"products/keep.png", "banners/keep.png"}, keys)
}

func TestSeededSingletons(t *testing.T) {
	a := newTestApplication(t)

	var home domain.HomePage
	require.NoError(t, a.gormDB.Where("id = ?", domain.SingletonID).First(&home).Error)
	assert.Nil(t, home.Banner1)
	assert.Nil(t, home.Banner2)

	var about domain.AboutPage
	require.NoError(t, a.gormDB.Where("id = ?", domain.SingletonID).First(&about).Error)

	// second init must not duplicate the rows
	a.checkPages()
	var count int64
	require.NoError(t, a.gormDB.Model(&domain.HomePage{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

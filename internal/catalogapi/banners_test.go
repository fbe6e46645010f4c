package catalogapi

import (
	"net/http"
	"testing"

	"github.com/melangjewelers/catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertHomeBannerSlots(t *testing.T) {
	h := newHarness(t)

	code, resp := h.postMultipart(t, "/api/product/home-banner",
		map[string]string{"position": "1"},
		map[string]string{"image": "banner1.jpg"})
	require.Equal(t, http.StatusOK, code)
	home := resp["homePage"].(map[string]interface{})
	assert.NotEmpty(t, home["banner1"])
	assert.Nil(t, home["banner2"])

	firstBanner1 := home["banner1"]

	// updating slot 2 must not alter slot 1
	code, resp = h.postMultipart(t, "/api/product/home-banner",
		map[string]string{"position": "2"},
		map[string]string{"image": "banner2.jpg"})
	require.Equal(t, http.StatusOK, code)
	home = resp["homePage"].(map[string]interface{})
	assert.Equal(t, firstBanner1, home["banner1"])
	assert.NotEmpty(t, home["banner2"])

	// replacing slot 1 must not alter slot 2
	code, resp = h.postMultipart(t, "/api/product/home-banner",
		map[string]string{"position": "1"},
		map[string]string{"image": "banner1b.jpg"})
	require.Equal(t, http.StatusOK, code)
	home = resp["homePage"].(map[string]interface{})
	assert.NotEqual(t, firstBanner1, home["banner1"])
	assert.NotEmpty(t, home["banner2"])

	// still exactly one row
	var count int64
	require.NoError(t, h.app.DB().Model(&domain.HomePage{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertHomeBannerInvalidPosition(t *testing.T) {
	h := newHarness(t)

	for _, position := range []string{"", "0", "3", "left"} {
		code, _ := h.postMultipart(t, "/api/product/home-banner",
			map[string]string{"position": position},
			map[string]string{"image": "banner.jpg"})
		assert.Equal(t, http.StatusBadRequest, code, "position %q", position)
	}
}

func TestUpsertHomeBannerMissingImage(t *testing.T) {
	h := newHarness(t)

	code, _ := h.postMultipart(t, "/api/product/home-banner",
		map[string]string{"position": "1"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetHomeBanners(t *testing.T) {
	h := newHarness(t)

	// singleton row is seeded at startup with both slots empty
	code, resp := h.getJSON(t, "/api/product/home-banners")
	require.Equal(t, http.StatusOK, code)
	home := resp["homePage"].(map[string]interface{})
	assert.Nil(t, home["banner1"])
	assert.Nil(t, home["banner2"])
}

func TestClearHomeBanner(t *testing.T) {
	h := newHarness(t)

	for _, position := range []string{"1", "2"} {
		code, _ := h.postMultipart(t, "/api/product/home-banner",
			map[string]string{"position": position},
			map[string]string{"image": "banner.png"})
		require.Equal(t, http.StatusOK, code)
	}

	code, resp := h.delete(t, "/api/product/home-banner/1")
	require.Equal(t, http.StatusOK, code)
	home := resp["homePage"].(map[string]interface{})
	assert.Nil(t, home["banner1"])
	assert.NotEmpty(t, home["banner2"])

	code, _ = h.delete(t, "/api/product/home-banner/5")
	assert.Equal(t, http.StatusBadRequest, code)
}

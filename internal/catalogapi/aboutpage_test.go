package catalogapi

import (
	"net/http"
	"testing"

	"github.com/melangjewelers/catalog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aboutFields() map[string]string {
	return map[string]string{
		"title":                "Our Story",
		"description1":         "Family jewelers since 1987.",
		"description2":         "Every piece is handmade.",
		"whatWeDoTitle":        "What We Do",
		"whatWeDoDescription1": "Custom design.",
		"whatWeDoDescription2": "Restoration.",
	}
}

func TestUpsertAboutPage(t *testing.T) {
	h := newHarness(t)

	code, resp := h.postMultipart(t, "/api/product/about-page",
		aboutFields(), map[string]string{"image": "banner.jpg"})
	require.Equal(t, http.StatusOK, code)
	about := resp["aboutPage"].(map[string]interface{})
	assert.Equal(t, "Our Story", about["title"])
	assert.NotEmpty(t, about["bannerUrl"])
}

func TestUpsertAboutPageMissingFields(t *testing.T) {
	h := newHarness(t)

	fields := aboutFields()
	delete(fields, "description1")
	delete(fields, "whatWeDoDescription2")

	code, resp := h.postMultipart(t, "/api/product/about-page", fields,
		map[string]string{"image": "banner.jpg"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["msg"], "description1")
	assert.Contains(t, resp["msg"], "whatWeDoDescription2")
}

func TestAboutPageUpsertIdempotence(t *testing.T) {
	h := newHarness(t)

	code, _ := h.postMultipart(t, "/api/product/about-page",
		aboutFields(), map[string]string{"image": "banner.jpg"})
	require.Equal(t, http.StatusOK, code)

	// second write with changed text wins; still exactly one row
	fields := aboutFields()
	fields["title"] = "Our Story, Retold"
	code, resp := h.postMultipart(t, "/api/product/about-page", fields, nil)
	require.Equal(t, http.StatusOK, code)
	about := resp["aboutPage"].(map[string]interface{})
	assert.Equal(t, "Our Story, Retold", about["title"])
	// banner survives a text-only update
	assert.NotEmpty(t, about["bannerUrl"])

	var count int64
	require.NoError(t, h.app.DB().Model(&domain.AboutPage{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetAboutPage(t *testing.T) {
	h := newHarness(t)

	code, resp := h.getJSON(t, "/api/product/about-page")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, resp, "aboutPage")

	// with the singleton row removed the fetch reports not found
	require.NoError(t, h.app.DB().Where("id = ?", domain.SingletonID).Delete(&domain.AboutPage{}).Error)
	code, _ = h.getJSON(t, "/api/product/about-page")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateAboutBanner(t *testing.T) {
	h := newHarness(t)

	code, _ := h.postMultipart(t, "/api/product/about-page",
		aboutFields(), map[string]string{"image": "banner.jpg"})
	require.Equal(t, http.StatusOK, code)

	var before domain.AboutPage
	require.NoError(t, h.app.DB().Where("id = ?", domain.SingletonID).First(&before).Error)

	code, resp := h.putMultipart(t, "/api/product/about-banner", nil,
		map[string]string{"image": "banner2.png"})
	require.Equal(t, http.StatusOK, code)
	about := resp["aboutPage"].(map[string]interface{})

	// banner changed, text untouched
	assert.NotEqual(t, before.BannerURL, about["bannerUrl"])
	assert.Equal(t, before.Title, about["title"])
	assert.Equal(t, before.Description1, about["description1"])
}

func TestUpdateAboutBannerMissingImage(t *testing.T) {
	h := newHarness(t)

	code, _ := h.putMultipart(t, "/api/product/about-banner", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

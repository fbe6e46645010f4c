package catalogapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/melangjewelers/catalog/internal/app"
	"github.com/melangjewelers/catalog/internal/domain"
	"github.com/melangjewelers/catalog/internal/objstore"
	"github.com/melangjewelers/catalog/internal/webserver"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterAboutPageRoutes registers the about-page singleton endpoints.
func RegisterAboutPageRoutes() {
	webserver.ApiPOST("/api/product/about-page", upsertAboutPage)
	webserver.ApiGET("/api/product/about-page", getAboutPage)
	webserver.ApiPUT("/api/product/about-banner", updateAboutBanner)
}

// upsertAboutPage creates the about page on first write and updates only the
// supplied fields afterwards. One statement against the fixed singleton key;
// a concurrent first write can never produce a second row.
func upsertAboutPage(c echo.Context) error {
	fields := map[string]string{
		"title":                   strings.TrimSpace(c.FormValue("title")),
		"description1":            strings.TrimSpace(c.FormValue("description1")),
		"description2":            strings.TrimSpace(c.FormValue("description2")),
		"description3":            strings.TrimSpace(c.FormValue("description3")),
		"what_we_do_title":        strings.TrimSpace(c.FormValue("whatWeDoTitle")),
		"what_we_do_description1": strings.TrimSpace(c.FormValue("whatWeDoDescription1")),
		"what_we_do_description2": strings.TrimSpace(c.FormValue("whatWeDoDescription2")),
	}

	var missing []string
	for _, f := range []struct{ col, name string }{
		{"title", "title"},
		{"description1", "description1"},
		{"what_we_do_title", "whatWeDoTitle"},
		{"what_we_do_description1", "whatWeDoDescription1"},
		{"what_we_do_description2", "whatWeDoDescription2"},
	} {
		if fields[f.col] == "" {
			missing = append(missing, f.name)
		}
	}

	bannerFile := formFile(c, "image")
	secondaryFile := formFile(c, "secondaryImage")

	// The banner image is required on first write only; later writes may
	// update text without re-uploading.
	var exists int64
	GetDB(c).Model(&domain.AboutPage{}).
		Where("id = ? AND banner_url <> ''", domain.SingletonID).Count(&exists)
	if bannerFile == nil && exists == 0 {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return fail(c, http.StatusBadRequest,
			"Missing required fields: "+strings.Join(missing, ", "))
	}

	a := GetApp(c)
	ctx := c.Request().Context()

	var banner, secondary *storedObject
	var err error
	if bannerFile != nil {
		if banner, err = storeUpload(ctx, a.Store(), bannerFile, "about"); err != nil {
			if errors.Is(err, objstore.ErrUnsupportedType) {
				return fail(c, http.StatusBadRequest, "Image must be jpg, jpeg or png")
			}
			return failStorage(c, "Failed to store about page image", err)
		}
	}
	if secondaryFile != nil {
		if secondary, err = storeUpload(ctx, a.Store(), secondaryFile, "about"); err != nil {
			if banner != nil {
				a.AsyncDeleteObject(banner.Key)
			}
			if errors.Is(err, objstore.ErrUnsupportedType) {
				return fail(c, http.StatusBadRequest, "Image must be jpg, jpeg or png")
			}
			return failStorage(c, "Failed to store about page image", err)
		}
	}

	now := time.Now()
	assignments := map[string]interface{}{"updated_at": now}
	for col, v := range fields {
		if v != "" {
			assignments[col] = v
		}
	}
	if banner != nil {
		assignments["banner_url"] = banner.URL
		assignments["banner_key"] = banner.Key
	}
	if secondary != nil {
		assignments["image_url"] = secondary.URL
		assignments["image_key"] = secondary.Key
	}

	var oldBannerKey, oldImageKey string
	var about domain.AboutPage
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		var current domain.AboutPage
		if err := tx.Where("id = ?", domain.SingletonID).First(&current).Error; err == nil {
			oldBannerKey = current.BannerKey
			oldImageKey = current.ImageKey
		}

		row := domain.AboutPage{
			ID:                   domain.SingletonID,
			Title:                fields["title"],
			Description1:         fields["description1"],
			Description2:         fields["description2"],
			Description3:         fields["description3"],
			WhatWeDoTitle:        fields["what_we_do_title"],
			WhatWeDoDescription1: fields["what_we_do_description1"],
			WhatWeDoDescription2: fields["what_we_do_description2"],
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if banner != nil {
			row.BannerURL, row.BannerKey = banner.URL, banner.Key
		}
		if secondary != nil {
			row.ImageURL, row.ImageKey = secondary.URL, secondary.Key
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(assignments),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", domain.SingletonID).First(&about).Error
	})
	if err != nil {
		if banner != nil {
			a.AsyncDeleteObject(banner.Key)
		}
		if secondary != nil {
			a.AsyncDeleteObject(secondary.Key)
		}
		return failStorage(c, "Failed to save about page", err)
	}

	if banner != nil && oldBannerKey != "" && oldBannerKey != banner.Key {
		a.AsyncDeleteObject(oldBannerKey)
	}
	if secondary != nil && oldImageKey != "" && oldImageKey != secondary.Key {
		a.AsyncDeleteObject(oldImageKey)
	}
	a.PublishChange(app.ChangeEvent{
		Actor:  actor(c),
		Action: "updated",
		Entity: "about_page",
		Detail: "content saved",
	})

	return okPayload(c, http.StatusOK, "About page saved successfully", "aboutPage", about)
}

func getAboutPage(c echo.Context) error {
	var about domain.AboutPage
	if err := GetDB(c).Where("id = ?", domain.SingletonID).First(&about).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "About page not configured yet")
	} else if err != nil {
		return failStorage(c, "Failed to query about page", err)
	}
	return okPayload(c, http.StatusOK, "About page fetched successfully", "aboutPage", about)
}

// updateAboutBanner replaces only the banner image, leaving all text and the
// secondary image untouched.
func updateAboutBanner(c echo.Context) error {
	file := formFile(c, "image")
	if file == nil {
		return fail(c, http.StatusBadRequest, "Missing required fields: image")
	}

	var about domain.AboutPage
	if err := GetDB(c).Where("id = ?", domain.SingletonID).First(&about).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "About page not configured yet")
	} else if err != nil {
		return failStorage(c, "Failed to query about page", err)
	}

	a := GetApp(c)
	ctx := c.Request().Context()

	obj, err := storeUpload(ctx, a.Store(), file, "about")
	if err != nil {
		if errors.Is(err, objstore.ErrUnsupportedType) {
			return fail(c, http.StatusBadRequest, "Image must be jpg, jpeg or png")
		}
		return failStorage(c, "Failed to store about banner image", err)
	}

	oldKey := about.BannerKey
	if err := GetDB(c).Model(&domain.AboutPage{}).
		Where("id = ?", domain.SingletonID).
		Updates(map[string]interface{}{
			"banner_url": obj.URL,
			"banner_key": obj.Key,
			"updated_at": time.Now(),
		}).Error; err != nil {
		if derr := a.Store().Delete(ctx, obj.Key); derr != nil {
			a.AsyncDeleteObject(obj.Key)
		}
		return failStorage(c, "Failed to update about banner", err)
	}

	if oldKey != "" && oldKey != obj.Key {
		a.AsyncDeleteObject(oldKey)
	}
	a.PublishChange(app.ChangeEvent{
		Actor:  actor(c),
		Action: "updated",
		Entity: "about_page",
		Detail: "banner replaced",
	})

	if err := GetDB(c).Where("id = ?", domain.SingletonID).First(&about).Error; err != nil {
		return failStorage(c, "Failed to query about page", err)
	}
	return okPayload(c, http.StatusOK, "About banner updated successfully", "aboutPage", about)
}

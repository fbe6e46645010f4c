package catalogapi

import (
	"net/http"
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

// RegisterBannerRoutes registers the home-page banner slot endpoints. The
// slot parameter is named "position" everywhere: route, handler and client.
func RegisterBannerRoutes() {
	webserver.ApiPOST("/api/product/home-banner", upsertHomeBanner)
	webserver.ApiGET("/api/product/home-banners", getHomeBanners)
	webserver.ApiDELETE("/api/product/home-banner/:position", clearHomeBanner)
}

// slotColumns maps a position token to its url/key column pair.
func slotColumns(position string) (urlCol, keyCol string, ok bool) {
	switch position {
	case "1":
		return "banner1", "banner1_key", true
	case "2":
		return "banner2", "banner2_key", true
	}
	return "", "", false
}

// upsertHomeBanner stores a new image for one of the two banner slots. The
// write targets the fixed singleton key with an ON CONFLICT update, so a
// second row can never appear and the other slot is never touched.
func upsertHomeBanner(c echo.Context) error {
	position := c.FormValue("position")
	urlCol, keyCol, valid := slotColumns(position)
	if !valid {
		return fail(c, http.StatusBadRequest, "Position must be 1 or 2")
	}

	file := formFile(c, "image")
	if file == nil {
		return fail(c, http.StatusBadRequest, "Missing required fields: image")
	}

	a := GetApp(c)
	ctx := c.Request().Context()

	obj, err := storeUpload(ctx, a.Store(), file, "banners")
	if err != nil {
		if errors.Is(err, objstore.ErrUnsupportedType) {
			return fail(c, http.StatusBadRequest, "Image must be jpg, jpeg or png")
		}
		return failStorage(c, "Failed to store banner image", err)
	}

	var oldKey *string
	var home domain.HomePage
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		var current domain.HomePage
		if err := tx.Where("id = ?", domain.SingletonID).First(&current).Error; err == nil {
			if position == "1" {
				oldKey = current.Banner1Key
			} else {
				oldKey = current.Banner2Key
			}
		}

		now := time.Now()
		row := domain.HomePage{ID: domain.SingletonID, CreatedAt: now, UpdatedAt: now}
		if position == "1" {
			row.Banner1, row.Banner1Key = &obj.URL, &obj.Key
		} else {
			row.Banner2, row.Banner2Key = &obj.URL, &obj.Key
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				urlCol:       obj.URL,
				keyCol:       obj.Key,
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", domain.SingletonID).First(&home).Error
	})
	if err != nil {
		if derr := a.Store().Delete(ctx, obj.Key); derr != nil {
			a.AsyncDeleteObject(obj.Key)
		}
		return failStorage(c, "Failed to update home banner", err)
	}

	if oldKey != nil && *oldKey != obj.Key {
		a.AsyncDeleteObject(*oldKey)
	}
	a.PublishChange(app.ChangeEvent{
		Actor:  actor(c),
		Action: "updated",
		Entity: "home_page",
		Detail: "banner slot " + position,
	})

	return okPayload(c, http.StatusOK, "Banner updated successfully", "homePage", home)
}

func getHomeBanners(c echo.Context) error {
	var home domain.HomePage
	if err := GetDB(c).Where("id = ?", domain.SingletonID).First(&home).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "No banners configured yet")
	} else if err != nil {
		return failStorage(c, "Failed to query home banners", err)
	}
	return okPayload(c, http.StatusOK, "Banners fetched successfully", "homePage", home)
}

// clearHomeBanner sets one slot back to null without disturbing the other.
func clearHomeBanner(c echo.Context) error {
	position := c.Param("position")
	urlCol, keyCol, valid := slotColumns(position)
	if !valid {
		return fail(c, http.StatusBadRequest, "Position must be 1 or 2")
	}

	var home domain.HomePage
	if err := GetDB(c).Where("id = ?", domain.SingletonID).First(&home).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "No banners configured yet")
	} else if err != nil {
		return failStorage(c, "Failed to query home banners", err)
	}

	var oldKey *string
	if position == "1" {
		oldKey = home.Banner1Key
	} else {
		oldKey = home.Banner2Key
	}

	if err := GetDB(c).Model(&domain.HomePage{}).
		Where("id = ?", domain.SingletonID).
		Updates(map[string]interface{}{
			urlCol:       nil,
			keyCol:       nil,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return failStorage(c, "Failed to clear home banner", err)
	}

	a := GetApp(c)
	if oldKey != nil {
		a.AsyncDeleteObject(*oldKey)
	}
	a.PublishChange(app.ChangeEvent{
		Actor:  actor(c),
		Action: "deleted",
		Entity: "home_page",
		Detail: "banner slot " + position,
	})

	if err := GetDB(c).Where("id = ?", domain.SingletonID).First(&home).Error; err != nil {
		return failStorage(c, "Failed to query home banners", err)
	}
	return okPayload(c, http.StatusOK, "Banner removed successfully", "homePage", home)
}

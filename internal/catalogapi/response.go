// Package catalogapi implements the catalog HTTP handlers. Every response
// carries a human-readable msg; successful responses add the entity payload
// under its conventional key (product, products, homePage, aboutPage,
// token/user).
package catalogapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/melangjewelers/catalog/internal/app"
	"github.com/melangjewelers/catalog/internal/webserver"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetApp pulls the application out of the request context.
func GetApp(c echo.Context) *app.Application {
	return c.Get(webserver.AppContextKey).(*app.Application)
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

// okPayload writes the envelope with one payload entry beside msg.
func okPayload(c echo.Context, status int, msg string, key string, v interface{}) error {
	return c.JSON(status, echo.Map{"msg": msg, key: v})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"msg": msg})
}

// failStorage logs the storage-layer detail server-side and returns a
// non-leaking 500 envelope.
func failStorage(c echo.Context, msg string, err error) error {
	zap.L().Error(msg,
		zap.String("method", c.Request().Method),
		zap.String("uri", c.Request().RequestURI),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"msg": msg})
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// actor returns a label for audit entries. Without token auth there is no
// authenticated identity, so the remote address stands in.
func actor(c echo.Context) string {
	return c.RealIP()
}

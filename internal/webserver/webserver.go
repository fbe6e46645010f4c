// Package webserver owns the echo instance, its middleware stack and the
// route registry the API packages register into.
package webserver

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/melangjewelers/catalog/internal/app"
	"github.com/melangjewelers/catalog/internal/objstore"
	"go.uber.org/zap"
)

const AppContextKey = "catalog_app"

type WebServer struct {
	root  *echo.Echo
	app   *app.Application
	guard echo.MiddlewareFunc
}

var server *WebServer

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// jsonSerializer plugs json-iterator in as echo's JSON codec.
type jsonSerializer struct{}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsonAPI.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsonAPI.NewDecoder(c.Request().Body).Decode(i)
	if err == io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, "empty request body").SetInternal(err)
	}
	return err
}

// Init builds the global web server instance around the application.
func Init(application *app.Application) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = &payloadValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, application)
			return next(c)
		}
	})

	cfg := application.Config()

	s := &WebServer{root: e, app: application}
	if cfg.Web.RequireToken {
		s.guard = echojwt.WithConfig(echojwt.Config{
			SigningKey:    []byte(cfg.Web.JwtSecret),
			SigningMethod: jwt.SigningMethodHS256.Name,
		})
	}

	// Local store images are served by this process; remote stores bring
	// their own web server.
	if store, ok := application.Store().(*objstore.LocalStore); ok {
		e.Static("/uploads", store.Dir)
	}

	server = s
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			zap.L().Info("http request",
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			)
			return nil
		}
	}
}

// Listen starts the HTTP listener and blocks until the server stops.
func Listen() error {
	cfg := server.app.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("starting web server on %s", addr)
	return server.root.Start(addr)
}

// Shutdown stops the HTTP listener.
func Shutdown() error {
	return server.root.Close()
}

// Echo exposes the underlying echo instance (used in tests).
func Echo() *echo.Echo {
	return server.root
}

// ApiGET registers an unauthenticated read route.
func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}

// ApiPOST registers a mutating route, token-guarded when web.require_token
// is enabled.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h, server.mutating()...)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT(path, h, server.mutating()...)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE(path, h, server.mutating()...)
}

// PubPOST registers a mutating route that stays open regardless of the
// token guard (signup and login must be reachable without a token).
func PubPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

func (s *WebServer) mutating() []echo.MiddlewareFunc {
	if s.guard == nil {
		return nil
	}
	return []echo.MiddlewareFunc{s.guard}
}

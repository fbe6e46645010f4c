package catalogapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/melangjewelers/catalog/config"
	"github.com/melangjewelers/catalog/internal/app"
	"github.com/melangjewelers/catalog/internal/webserver"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	app  *app.Application
	echo *echo.Echo
}

func newHarness(t *testing.T) *testHarness {
	return newHarnessWithConfig(t, func(cfg *config.AppConfig) {})
}

func newHarnessWithConfig(t *testing.T, mutate func(*config.AppConfig)) *testHarness {
	t.Helper()

	workdir := t.TempDir()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = workdir
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = "test.db"
	cfg.Storage.Type = "local"
	cfg.Storage.Dir = filepath.Join(workdir, "uploads")
	cfg.Storage.PublicURL = "http://test.local/uploads"
	cfg.Web.JwtSecret = "test-secret"
	mutate(cfg)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	t.Cleanup(application.Release)

	webserver.Init(application)
	RegisterProductRoutes()
	RegisterBannerRoutes()
	RegisterAboutPageRoutes()
	RegisterAuthRoutes()

	return &testHarness{app: application, echo: webserver.Echo()}
}

func (h *testHarness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.echo.ServeHTTP(rec, req)
	return rec
}

func (h *testHarness) getJSON(t *testing.T, path string) (int, map[string]interface{}) {
	t.Helper()
	rec := h.do(httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, decodeEnvelope(t, rec.Body)
}

func (h *testHarness) postJSON(t *testing.T, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := h.do(req)
	return rec.Code, decodeEnvelope(t, rec.Body)
}

func decodeEnvelope(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&envelope))
	return envelope
}

// multipartBody builds a multipart form with the given fields and one file
// part per entry in files (field name -> filename). File bytes are a small
// fake PNG payload; handlers never inspect image contents.
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, filename := range files {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (h *testHarness) postMultipart(t *testing.T, path string, fields map[string]string, files map[string]string) (int, map[string]interface{}) {
	t.Helper()
	body, ctype := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := h.do(req)
	return rec.Code, decodeEnvelope(t, rec.Body)
}

func (h *testHarness) putMultipart(t *testing.T, path string, fields map[string]string, files map[string]string) (int, map[string]interface{}) {
	t.Helper()
	body, ctype := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPut, path, body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := h.do(req)
	return rec.Code, decodeEnvelope(t, rec.Body)
}

func (h *testHarness) delete(t *testing.T, path string) (int, map[string]interface{}) {
	t.Helper()
	rec := h.do(httptest.NewRequest(http.MethodDelete, path, nil))
	return rec.Code, decodeEnvelope(t, rec.Body)
}

package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dirscan/internal/middleware"
	"dirscan/internal/models"
	"dirscan/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.GET("/scan", GetScan)
	r.GET("/scan/text", GetScanText)
	r.GET("/volume", GetVolume)
	r.GET("/healthz", GetHealth)
	return r
}

func request(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "app.log"), make([]byte, 4096), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme"), make([]byte, 100), 0o644))
	return dir
}

func TestGetScan(t *testing.T) {
	dir := fixture(t)

	rec := request(newTestEngine(), "/scan?path="+url.QueryEscape(dir))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.ScanReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Equal(t, dir, report.Path)
	assert.Equal(t, int64(4196), report.TotalBytes)
	require.Len(t, report.Elements, 2)
	assert.Equal(t, models.DirectoryElement{
		Kind: models.KindDir,
		Path: filepath.Join(dir, "logs"),
		Size: models.Size{Value: 4, Unit: models.Kilobytes},
	}, report.Elements[0])
	assert.Equal(t, models.KindFile, report.Elements[1].Kind)
	require.NotNil(t, report.Volume)
	assert.NotZero(t, report.Volume.TotalBytes)
}

func TestGetScanErrors(t *testing.T) {
	dir := fixture(t)

	tests := map[string]struct {
		target string
		status int
	}{
		"missing path parameter": {target: "/scan", status: http.StatusBadRequest},
		"blank path parameter":   {target: "/scan?path=%20", status: http.StatusBadRequest},
		"path does not exist":    {target: "/scan?path=" + url.QueryEscape(filepath.Join(dir, "nope")), status: http.StatusNotFound},
		"path is a file":         {target: "/scan?path=" + url.QueryEscape(filepath.Join(dir, "readme")), status: http.StatusBadRequest},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := request(newTestEngine(), tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGetScanText(t *testing.T) {
	dir := fixture(t)

	rec := request(newTestEngine(), "/scan/text?path="+url.QueryEscape(dir))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"DIR " + filepath.Join(dir, "logs") + " 4KB",
		"FILE " + filepath.Join(dir, "readme") + " 0KB",
	}, lines)
}

func TestGetScanTextNotFound(t *testing.T) {
	rec := request(newTestEngine(), "/scan/text?path="+url.QueryEscape(filepath.Join(t.TempDir(), "nope")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVolume(t *testing.T) {
	dir := fixture(t)

	rec := request(newTestEngine(), "/volume?path="+url.QueryEscape(dir))
	require.Equal(t, http.StatusOK, rec.Code)

	var volume models.VolumeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &volume))
	assert.Equal(t, dir, volume.Path)

	rec = request(newTestEngine(), "/volume?path="+url.QueryEscape(filepath.Join(dir, "nope")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHealth(t *testing.T) {
	rec := request(newTestEngine(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusForError(fmt.Errorf("%w: /x", services.ErrPathNotFound)))
	assert.Equal(t, http.StatusBadRequest, statusForError(fmt.Errorf("%w: /x", services.ErrNotADirectory)))
	assert.Equal(t, http.StatusInternalServerError, statusForError(services.ErrInconsistentUnits))
	assert.Equal(t, http.StatusInternalServerError, statusForError(errors.New("boom")))
}

func TestRequestSubject(t *testing.T) {
	r := gin.New()
	r.GET("/anonymous", func(c *gin.Context) {
		c.String(http.StatusOK, "%s", requestSubject(c))
	})
	r.GET("/claims", func(c *gin.Context) {
		claims := &services.ScanClaims{}
		claims.Subject = "ops"
		c.Set(middleware.ClaimsKey, claims)
		c.String(http.StatusOK, "%s", requestSubject(c))
	})

	assert.Equal(t, "anonymous", request(r, "/anonymous").Body.String())
	assert.Equal(t, "ops", request(r, "/claims").Body.String())
}

package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"dirscan/internal/middleware"
	"dirscan/internal/services"

	"github.com/gin-gonic/gin"
)

// statusForError maps scan errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrPathNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotADirectory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func requirePath(c *gin.Context) (string, bool) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter is required"})
		return "", false
	}
	return path, true
}

// requestSubject returns the token subject attached by TokenAuthMiddleware,
// or "anonymous" when auth is disabled
func requestSubject(c *gin.Context) string {
	value, exists := c.Get(middleware.ClaimsKey)
	if !exists {
		return "anonymous"
	}
	claims, ok := value.(*services.ScanClaims)
	if !ok || claims.Subject == "" {
		return "anonymous"
	}
	return claims.Subject
}

// GetScan returns the immediate children of ?path= sorted by size, with
// totals and the usage of the volume holding it
func GetScan(c *gin.Context) {
	path, ok := requirePath(c)
	if !ok {
		return
	}

	log.Printf("[HTTP] Scan of %s requested by %s", path, requestSubject(c))
	report, err := services.GetScanReport(path)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	volume, err := services.GetVolumeInfo(report.Path)
	if err != nil {
		log.Printf("[HTTP] Could not get volume info for %s: %v", report.Path, err)
	} else {
		report.Volume = volume
	}

	c.JSON(http.StatusOK, report)
}

// GetScanText returns one display line per element of ?path=
func GetScanText(c *gin.Context) {
	path, ok := requirePath(c)
	if !ok {
		return
	}

	log.Printf("[HTTP] Text scan of %s requested by %s", path, requestSubject(c))
	elements, err := services.Scan(path)
	if err != nil {
		c.String(statusForError(err), "%s\n", err.Error())
		return
	}

	var b strings.Builder
	for _, element := range elements {
		b.WriteString(element.String())
		b.WriteByte('\n')
	}
	c.String(http.StatusOK, "%s", b.String())
}

// GetVolume returns usage of the filesystem holding ?path=
func GetVolume(c *gin.Context) {
	path, ok := requirePath(c)
	if !ok {
		return
	}

	volume, err := services.GetVolumeInfo(path)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, volume)
}

// GetHealth reports liveness and the number of WebSocket clients
func GetHealth(c *gin.Context) {
	clients := 0
	if hub := services.GetWebSocketHub(); hub != nil {
		clients = hub.ClientCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"clients": clients,
	})
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundbridge/directorcore/internal/presets"
	"github.com/soundbridge/directorcore/internal/types"
)

// GET /api/v1/presets
func (s *Server) listPresets(c *gin.Context) {
	names := s.bridge.Presets().List()
	c.JSON(http.StatusOK, gin.H{
		"presets": names,
		"count":   len(names),
	})
}

// POST /api/v1/presets/:name/apply
func (s *Server) applyPreset(c *gin.Context) {
	name := c.Param("name")

	preset, err := s.bridge.Presets().Load(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	status, ok := s.requireStatus(c)
	if !ok {
		return
	}

	err = presets.Apply(c.Request.Context(), s.bridge.Amplifier(), status, preset)
	s.recordCommand(c, name, "preset", "", err)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.FromAmplifierError(err))
		return
	}

	// The polled cache is stale now; refresh so the broadcast carries the
	// post-preset state.
	if fresh, refreshErr := s.bridge.RefreshStatus(c.Request.Context()); refreshErr == nil {
		s.wsHub.OnSystemStatus(fresh)
	}

	c.JSON(http.StatusOK, gin.H{
		"preset":  name,
		"message": "Preset applied successfully",
	})
}

// POST /api/v1/presets/reload
func (s *Server) reloadPresets(c *gin.Context) {
	s.bridge.Presets().ClearCache()
	c.JSON(http.StatusOK, gin.H{"message": "Preset cache cleared"})
}

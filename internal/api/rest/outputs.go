package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundbridge/directorcore/internal/storage"
	"github.com/soundbridge/directorcore/internal/types"
	"go.uber.org/zap"
)

// POST /api/v1/outputs/:id/power
func (s *Server) setOutputPower(c *gin.Context) {
	var req struct {
		On *bool `json:"on" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, ok := s.resolveOutput(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown output"})
		return
	}

	err := s.bridge.Amplifier().SetOutputPower(c.Request.Context(), output, *req.On)
	s.recordCommand(c, output.String(), "power", fmt.Sprintf("%t", *req.On), err)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.FromAmplifierError(err))
		return
	}

	s.wsHub.BroadcastOutputChanged(output.String(), "power", *req.On)
	c.JSON(http.StatusOK, gin.H{
		"output": output.String(),
		"on":     *req.On,
	})
}

// POST /api/v1/outputs/:id/volume
func (s *Server) setOutputVolume(c *gin.Context) {
	var req struct {
		Volume *int `json:"volume" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, ok := s.resolveOutput(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown output"})
		return
	}

	err := s.bridge.Amplifier().SetOutputVolume(c.Request.Context(), output, *req.Volume)
	s.recordCommand(c, output.String(), "volume", fmt.Sprintf("%d", *req.Volume), err)
	if err != nil {
		resp := types.FromAmplifierError(err)
		status := http.StatusBadGateway
		if resp.Error.Code == types.CodeVolumeRange {
			status = http.StatusBadRequest
		}
		c.JSON(status, resp)
		return
	}

	s.wsHub.BroadcastOutputChanged(output.String(), "volume", *req.Volume)
	c.JSON(http.StatusOK, gin.H{
		"output": output.String(),
		"volume": *req.Volume,
	})
}

// POST /api/v1/outputs/:id/source
func (s *Server) setOutputSource(c *gin.Context) {
	var req struct {
		Source string `json:"source" binding:"required"` // input display name
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, ok := s.resolveOutput(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown output"})
		return
	}

	status, ok := s.requireStatus(c)
	if !ok {
		return
	}
	input, found := status.Inputs[req.Source]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		return
	}

	err := s.bridge.Amplifier().MapInputToOutput(c.Request.Context(), input, output)
	s.recordCommand(c, output.String(), "source", req.Source, err)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.FromAmplifierError(err))
		return
	}

	s.wsHub.BroadcastOutputChanged(output.String(), "source", input.ProtocolName)
	c.JSON(http.StatusOK, gin.H{
		"output": output.String(),
		"source": input.ProtocolName,
	})
}

// GET /api/v1/events
func (s *Server) listEvents(c *gin.Context) {
	db := s.bridge.EventLog()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event log not configured"})
		return
	}

	events, err := db.ListRecentCommands(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// recordCommand writes an audit event when an event log is configured.
// Audit failures are logged, never surfaced to the API caller.
func (s *Server) recordCommand(c *gin.Context, output, action, value string, cmdErr error) {
	db := s.bridge.EventLog()
	if db == nil {
		return
	}

	event := storage.CommandEvent{
		Username: c.GetString("username"),
		Output:   output,
		Action:   action,
		Value:    value,
	}
	if cmdErr != nil {
		event.Error = cmdErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.RecordCommand(ctx, event); err != nil {
		s.logger.Error("Failed to record command event", zap.Error(err))
	}
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundbridge/directorcore/internal/director"
	"github.com/soundbridge/directorcore/internal/types"
)

// GET /api/v1/amplifier/status
// ?refresh=true forces a fresh fetch instead of the polled cache.
func (s *Server) getAmplifierStatus(c *gin.Context) {
	status := s.bridge.LastStatus()

	if status == nil || c.Query("refresh") == "true" {
		fresh, err := s.bridge.RefreshStatus(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, types.FromAmplifierError(err))
			return
		}
		status = fresh
	}

	c.JSON(http.StatusOK, status)
}

// GET /api/v1/amplifier/inputs
func (s *Server) listInputs(c *gin.Context) {
	status, ok := s.requireStatus(c)
	if !ok {
		return
	}

	// InputNames preserves the order the amplifier reported.
	inputs := make([]director.InputID, 0, len(status.InputNames))
	for _, name := range status.InputNames {
		inputs = append(inputs, status.Inputs[name])
	}

	c.JSON(http.StatusOK, gin.H{
		"inputs": inputs,
		"count":  len(inputs),
	})
}

// GET /api/v1/amplifier/outputs
func (s *Server) listOutputs(c *gin.Context) {
	status, ok := s.requireStatus(c)
	if !ok {
		return
	}

	outputs := make([]director.OutputStatus, 0, len(status.Outputs))
	for _, id := range director.AllOutputs() {
		if out, found := status.Outputs[id.String()]; found {
			outputs = append(outputs, out)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"outputs": outputs,
		"count":   len(outputs),
	})
}

// requireStatus returns a snapshot, fetching one if nothing was polled yet.
func (s *Server) requireStatus(c *gin.Context) (*director.SystemStatus, bool) {
	if status := s.bridge.LastStatus(); status != nil {
		return status, true
	}

	status, err := s.bridge.RefreshStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, types.FromAmplifierError(err))
		return nil, false
	}
	return status, true
}

// resolveOutput maps a wire string (Z1..Z8, DXOa, DXOb) to an OutputID,
// preferring the polled snapshot so group membership is honored.
func (s *Server) resolveOutput(id string) (director.OutputID, bool) {
	if status := s.bridge.LastStatus(); status != nil {
		if out, ok := status.Outputs[id]; ok {
			return out.Output, true
		}
	}

	for _, out := range director.AllOutputs() {
		if out.String() == id {
			return out, true
		}
	}
	return director.OutputID{}, false
}

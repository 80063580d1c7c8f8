package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	meternamedomain "github.com/smallbiznis/rentledger/internal/metername/domain"
)

func (s *Server) ListMeterNames(c *gin.Context) {
	names, err := s.meterNameSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meter_names": names})
}

func (s *Server) SetMeterName(c *gin.Context) {
	var req meternamedomain.SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	name, err := s.meterNameSvc.SetCustomName(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, name)
}

type removeMeterNameRequest struct {
	CanonicalName string                `json:"canonical_name"`
	Scope         meternamedomain.Scope `json:"scope"`
	Room          string                `json:"room,omitempty"`
}

func (s *Server) RemoveMeterName(c *gin.Context) {
	var req removeMeterNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.CanonicalName) == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.meterNameSvc.RemoveCustomName(c.Request.Context(), req.CanonicalName, req.Scope, req.Room)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

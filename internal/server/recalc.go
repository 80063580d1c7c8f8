package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) RecalculateAll(c *gin.Context) {
	if err := s.recalcSvc.RecalculateAll(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) RecalculateTenant(c *gin.Context) {
	room := strings.TrimSpace(c.Param("room"))
	if room == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.recalcSvc.RecalculateForTenant(c.Request.Context(), room); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "room": room})
}

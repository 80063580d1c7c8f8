package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/rentledger/internal/backup"
)

func (s *Server) ExportSnapshot(c *gin.Context) {
	if s.backupSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	path, err := s.backupSvc.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (s *Server) ImportSnapshot(c *gin.Context) {
	if s.backupSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var snapshot backup.Snapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.backupSvc.Import(c.Request.Context(), &snapshot); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"tenants": len(snapshot.Tenants),
		"bills":   len(snapshot.Bills),
	})
}

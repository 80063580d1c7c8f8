package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/smallbiznis/rentledger/internal/tenant/domain"
)

func (s *Server) ListTenants(c *gin.Context) {
	tenants, err := s.tenantSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants})
}

func (s *Server) CreateTenant(c *gin.Context) {
	var req tenantdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

func (s *Server) GetTenant(c *gin.Context) {
	room := strings.TrimSpace(c.Param("room"))
	if room == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.GetByRoom(c.Request.Context(), room)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (s *Server) UpdateTenant(c *gin.Context) {
	room := strings.TrimSpace(c.Param("room"))
	if room == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req tenantdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Room = room

	tenant, err := s.tenantSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (s *Server) DeleteTenant(c *gin.Context) {
	room := strings.TrimSpace(c.Param("room"))
	if room == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.tenantSvc.Delete(c.Request.Context(), room); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

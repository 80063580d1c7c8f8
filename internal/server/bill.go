package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billdomain "github.com/smallbiznis/rentledger/internal/bill/domain"
)

func (s *Server) SaveBill(c *gin.Context) {
	var req billdomain.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	bill, err := s.billSvc.Save(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (s *Server) GetBill(c *gin.Context) {
	room := strings.TrimSpace(c.Param("room"))
	month := strings.TrimSpace(c.Param("month"))
	if room == "" || month == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	bill, err := s.billSvc.GetBill(c.Request.Context(), room, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (s *Server) GetBillTotal(c *gin.Context) {
	room := strings.TrimSpace(c.Param("room"))
	month := strings.TrimSpace(c.Param("month"))
	if room == "" || month == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	total, err := s.billSvc.GetDisplayTotal(c.Request.Context(), room, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room":  room,
		"month": month,
		"total": total,
	})
}

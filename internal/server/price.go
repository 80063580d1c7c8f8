package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pricedomain "github.com/smallbiznis/rentledger/internal/price/domain"
)

func (s *Server) GetPrices(c *gin.Context) {
	price, err := s.priceSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (s *Server) UpdatePrices(c *gin.Context) {
	var req pricedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	price, err := s.priceSvc.UpdatePrices(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

type privacyKeywordsRequest struct {
	Keywords []string `json:"keywords"`
}

func (s *Server) UpdatePrivacyKeywords(c *gin.Context) {
	var req privacyKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	price, err := s.priceSvc.UpdatePrivacyKeywords(c.Request.Context(), req.Keywords)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	pricelistdomain "github.com/smallvet/clinica/internal/pricelist/domain"
)

type priceListItemRequest struct {
	ClientID        string  `json:"client_id"`
	Name            string  `json:"name"`
	ClientPrice     int64   `json:"client_price"`
	DefaultQuantity float64 `json:"default_quantity"`
	Active          *bool   `json:"active"`
}

func (s *Server) CreatePriceListItem(c *gin.Context) {
	var req priceListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.priceListSvc.Create(c.Request.Context(), pricelistdomain.CreatePriceListItemRequest{
		ClientID:        strings.TrimSpace(req.ClientID),
		Name:            strings.TrimSpace(req.Name),
		ClientPrice:     req.ClientPrice,
		DefaultQuantity: req.DefaultQuantity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePriceListItem(c *gin.Context) {
	var req priceListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.priceListSvc.Update(c.Request.Context(), pricelistdomain.UpdatePriceListItemRequest{
		ID:              strings.TrimSpace(c.Param("id")),
		Name:            strings.TrimSpace(req.Name),
		ClientPrice:     req.ClientPrice,
		DefaultQuantity: req.DefaultQuantity,
		Active:          req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListPriceList serves a client's price list; the client ID comes from
// the route, not a query param.
func (s *Server) ListPriceList(c *gin.Context) {
	var query struct {
		ActiveOnly bool `form:"active_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.priceListSvc.ListByClient(c.Request.Context(), pricelistdomain.ListPriceListRequest{
		ClientID:   strings.TrimSpace(c.Param("id")),
		ActiveOnly: query.ActiveOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePriceListItem(c *gin.Context) {
	err := s.priceListSvc.Delete(c.Request.Context(), pricelistdomain.DeletePriceListItemRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isPriceListValidationError(err error) bool {
	switch err {
	case pricelistdomain.ErrInvalidClinic,
		pricelistdomain.ErrInvalidClient,
		pricelistdomain.ErrInvalidName,
		pricelistdomain.ErrInvalidPrice,
		pricelistdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

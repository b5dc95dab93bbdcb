package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/smallvet/clinica/internal/inventory/domain"
)

type productRequest struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Supplier     string  `json:"supplier"`
	StockQty     float64 `json:"stock_qty"`
	ReorderLevel float64 `json:"reorder_level"`
}

type movementRequest struct {
	Kind     string  `json:"kind"`
	Quantity float64 `json:"quantity"`
	Reason   string  `json:"reason"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.Create(c.Request.Context(), inventorydomain.CreateProductRequest{
		Name:         strings.TrimSpace(req.Name),
		Unit:         strings.TrimSpace(req.Unit),
		Supplier:     strings.TrimSpace(req.Supplier),
		StockQty:     req.StockQty,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.Update(c.Request.Context(), inventorydomain.UpdateProductRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		Name:         strings.TrimSpace(req.Name),
		Unit:         strings.TrimSpace(req.Unit),
		Supplier:     strings.TrimSpace(req.Supplier),
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.List(c.Request.Context(), inventorydomain.ListProductRequest{
		Search: strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	resp, err := s.inventorySvc.GetByID(c.Request.Context(), inventorydomain.GetProductRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordStockMovement(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.RecordMovement(c.Request.Context(), inventorydomain.RecordMovementRequest{
		ProductID: strings.TrimSpace(c.Param("id")),
		Kind:      inventorydomain.MovementKind(strings.TrimSpace(req.Kind)),
		Quantity:  req.Quantity,
		Reason:    strings.TrimSpace(req.Reason),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStockMovements(c *gin.Context) {
	resp, err := s.inventorySvc.ListMovements(c.Request.Context(), inventorydomain.GetProductRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLowStock(c *gin.Context) {
	resp, err := s.inventorySvc.ListBelowReorder(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isInventoryValidationError(err error) bool {
	switch err {
	case inventorydomain.ErrInvalidClinic,
		inventorydomain.ErrInvalidName,
		inventorydomain.ErrInvalidID,
		inventorydomain.ErrInvalidKind,
		inventorydomain.ErrInvalidQuantity:
		return true
	default:
		return false
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/dto"
	"github.com/luxwatch/luxwatch-api/internal/middleware"
	"github.com/luxwatch/luxwatch-api/internal/service"
)

type FavoritesHandler struct {
	svc *service.FavoritesService
}

func NewFavoritesHandler(svc *service.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{svc: svc}
}

func (h *FavoritesHandler) Add(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	added, err := h.svc.Add(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{"message": "already in favourites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "added to favourites"})
}

func (h *FavoritesHandler) Remove(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.svc.Remove(c.Request.Context(), middleware.GetUserID(c), productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed from favourites"})
}

func (h *FavoritesHandler) List(c *gin.Context) {
	products, err := h.svc.View(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		items = append(items, dto.ProductResponse{
			ID:          p.ID.Hex(),
			URL:         p.URL,
			Name:        p.Name,
			Brand:       p.Brand,
			Price:       p.Price,
			Description: p.Description,
			Features:    p.Features,
			Category:    p.Category,
			InStock:     p.InStock,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Products: items, Total: len(items)})
}

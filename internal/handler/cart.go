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

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(view.Items))}
	for _, item := range view.Items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ProductID: item.Product.ID.Hex(),
			Name:      item.Product.Name,
			Brand:     item.Product.Brand,
			URL:       item.Product.URL,
			Price:     item.Product.Price,
			InStock:   item.Product.InStock,
			Quantity:  item.Quantity,
		})
	}
	for _, id := range view.Pruned {
		resp.Pruned = append(resp.Pruned, id.Hex())
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	quantity, err := h.svc.Add(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item added to cart", "quantity": quantity})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	quantity, err := h.svc.Remove(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed from cart", "quantity": quantity})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req dto.UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetQuantity(c.Request.Context(), middleware.GetUserID(c), productID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		case errors.Is(err, service.ErrCartItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found in cart"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "quantity updated", "quantity": req.Quantity})
}

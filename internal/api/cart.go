package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	MedicineID int64 `json:"medicine_id" binding:"required"`
}

type quantityRequest struct {
	Quantity string `json:"quantity" binding:"required,oneof=increase decrease"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	lines, err := h.Cart.Add(c.Request.Context(), principalFrom(c), req.MedicineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lines)
}

func (h *Handler) listCart(c *gin.Context) {
	lines, err := h.Cart.List(c.Request.Context(), principalFrom(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *Handler) changeQuantity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	lines, err := h.Cart.ChangeQuantity(c.Request.Context(), principalFrom(c), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *Handler) removeCartLine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	lines, err := h.Cart.Remove(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *Handler) clearCart(c *gin.Context) {
	removed, err := h.Cart.Clear(c.Request.Context(), principalFrom(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": removed})
}

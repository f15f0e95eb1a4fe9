package api

import (
	"net/http"

	"storefront-service/internal/apperr"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

type orderMedicineRequest struct {
	MedicineID int64 `json:"medicine_id" binding:"required"`
}

func (h *Handler) orderMedicine(c *gin.Context) {
	var req orderMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.Orders.InitiateFromMedicine(c.Request.Context(), principalFrom(c), req.MedicineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) checkoutCartLine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.Orders.InitiateFromCartLine(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := h.Orders.GetOrder(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) createPaymentIntent(c *gin.Context) {
	var req service.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	resp, err := h.Payments.RequestPaymentIntent(c.Request.Context(), principalFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) confirmPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req service.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.Payments.Confirm(c.Request.Context(), principalFrom(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{
		"modifiedCount": result.ModifiedCount(),
		"order":         result.Order,
	}
	status := http.StatusOK
	if conflict := result.Conflict(); conflict != nil {
		meta := apperr.MetadataFor(conflict.Code())
		status = meta.HTTPStatus
		body["code"] = conflict.Code()
		body["notice"] = meta.PublicMessage
	}
	c.JSON(status, body)
}

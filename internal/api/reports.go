package api

import (
	"net/http"

	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) buyerHistory(c *gin.Context) {
	orders, err := h.Reports.BuyerHistory(c.Request.Context(), principalFrom(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) sellerHistory(c *gin.Context) {
	orders, err := h.Reports.SellerHistory(c.Request.Context(), principalFrom(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) allConfirmed(c *gin.Context) {
	r, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := h.Reports.AllConfirmed(c.Request.Context(), principalFrom(c), service.AllQuery{
		CallerEmail: c.Query("email"),
		Customer:    c.Query("customer"),
		Range:       r,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) sellerSummary(c *gin.Context) {
	summary, err := h.Reports.SellerSummary(c.Request.Context(), principalFrom(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) storeSummary(c *gin.Context) {
	r, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.Reports.StoreSummary(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) liveSummary(c *gin.Context) {
	summary, err := h.Reports.LiveSummary(c.Request.Context(), c.Query("seller"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

package api

import (
	"io"
	"net/http"

	"storefront-service/internal/apperr"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v84/webhook"
	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

// stripeWebhook verifies and applies processor notifications
func (h *Handler) stripeWebhook(c *gin.Context) {
	if h.Reconciler == nil || h.WebhookSecret == "" {
		respondError(c, apperr.New(apperr.CodeInternal, "webhook not configured"))
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respondError(c, apperr.Wrap(apperr.CodeInternal, err, "read request body"))
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		respondError(c, apperr.Validation("stripe signature missing"))
		return
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, h.WebhookSecret)
	if err != nil {
		util.GetLogger().Warn("Rejected webhook", zap.Error(err))
		respondError(c, apperr.Validation("invalid stripe signature"))
		return
	}

	if err := h.Reconciler.HandleEvent(c.Request.Context(), &event); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

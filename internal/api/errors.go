package api

import (
	"net/http"
	"strconv"

	"storefront-service/internal/apperr"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes err using its taxonomy code. Server side failures get
// the public message only.
func respondError(c *gin.Context, err error) {
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeInternal, err, "unexpected error")
	}

	meta := apperr.MetadataFor(typed.Code())
	message := typed.Message()
	if meta.HTTPStatus >= http.StatusInternalServerError {
		message = meta.PublicMessage
		util.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", string(typed.Code())),
			zap.Error(err))
	}

	body := gin.H{
		"error": message,
		"code":  typed.Code(),
	}
	if meta.DetailsAllowed && typed.Details() != nil {
		body["details"] = typed.Details()
	}
	if meta.Retryable {
		body["retryable"] = true
	}

	c.AbortWithStatusJSON(meta.HTTPStatus, body)
}

func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"code":    apperr.CodeValidation,
		"details": err.Error(),
	})
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperr.Validation("invalid "+name))
		return 0, false
	}
	return id, true
}

package api

import (
	"net/http"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) registerUser(c *gin.Context) {
	var req service.RegisterRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	user, err := h.Users.Register(c.Request.Context(), principalFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) getUserRole(c *gin.Context) {
	p := principalFrom(c)
	if !p.IsSelf(c.Param("email")) && !p.RoleResolved {
		respondError(c, apperr.New(apperr.CodeRolePending, "role is still being resolved"))
		return
	}

	info, err := h.Users.GetRole(c.Request.Context(), p, c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) checkUser(c *gin.Context) {
	exists, err := h.Users.Exists(c.Request.Context(), principalFrom(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (h *Handler) touchLogin(c *gin.Context) {
	if err := h.Users.TouchLogin(c.Request.Context(), principalFrom(c), c.Param("email")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

func (h *Handler) myActions(c *gin.Context) {
	p := principalFrom(c)
	if !p.RoleResolved {
		c.Header("Retry-After", "1")
		respondError(c, apperr.New(apperr.CodeRolePending, "role is still being resolved"))
		return
	}

	actions := auth.AllowedActions(p.Role)
	if actions == nil {
		actions = []auth.Action{}
	}
	c.JSON(http.StatusOK, gin.H{
		"role":    p.Role.String(),
		"actions": actions,
	})
}

func (h *Handler) listPendingSellers(c *gin.Context) {
	users, err := h.Users.ListPendingSellers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) listSellerAccounts(c *gin.Context) {
	users, err := h.Users.ListSellerAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) decideSellerApplication(c *gin.Context) {
	var req service.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.Users.DecideSellerApplication(c.Request.Context(), principalFrom(c), &req)
	if err != nil {
		if apperr.Is(err, apperr.CodeForbidden) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    apperr.As(err).Message(),
				"code":     apperr.CodeForbidden,
				"details":  apperr.As(err).Details(),
				"redirect": auth.ForbiddenPath,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

// PrincipalResolver attaches a role to an authenticated identity
type PrincipalResolver interface {
	Resolve(ctx context.Context, id auth.Identity) *auth.Principal
}

// authenticate turns a bearer token into a Principal. Requests without a
// valid token continue with no principal; the gate decides what that means.
func authenticate(tokens auth.TokenConfig, resolver PrincipalResolver) gin.HandlerFunc {
	logger := util.GetLogger()
	return func(c *gin.Context) {
		raw := auth.BearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.Next()
			return
		}

		id, err := auth.ParseIdentityToken(tokens, raw)
		if err != nil {
			logger.Debug("Rejected identity token", zap.Error(err))
			c.Next()
			return
		}

		c.Set(principalKey, resolver.Resolve(c.Request.Context(), id))
		c.Next()
	}
}

// principalFrom returns the request principal, or nil when unauthenticated
func principalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}

// requireRoles gates a route on the principal's role
func requireRoles(required auth.RoleSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		enforce(c, auth.Authorize(principalFrom(c), required))
	}
}

// requireIdentity gates a route on authentication alone
func requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		enforce(c, auth.AuthorizeAuthenticated(principalFrom(c)))
	}
}

func enforce(c *gin.Context, d auth.Decision) {
	util.GateDecisionsTotal.WithLabelValues(d.Outcome.String(), string(d.Reason)).Inc()

	switch d.Outcome {
	case auth.Allow:
		c.Next()
	case auth.Pending:
		c.Header("Retry-After", "1")
		respondError(c, apperr.New(apperr.CodeRolePending, "role is still being resolved"))
	case auth.Deny:
		code := apperr.CodeForbidden
		status := http.StatusForbidden
		if d.Reason == auth.ReasonUnauthenticated {
			code = apperr.CodeUnauthenticated
			status = http.StatusUnauthorized
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":    apperr.MetadataFor(code).PublicMessage,
			"code":     code,
			"reason":   d.Reason,
			"redirect": d.Redirect(c.Request.URL.RequestURI()),
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

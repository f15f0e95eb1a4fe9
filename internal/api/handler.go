package api

import (
	"context"
	"net/http"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is a dependency checked by the readiness endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps wires the handler
type Deps struct {
	Users      *service.UserService
	Catalog    *service.CatalogService
	Cart       *service.CartService
	Orders     *service.OrderService
	Payments   *service.PaymentService
	Reports    *service.ReportService
	Reconciler *service.PaymentReconciler

	Tokens        auth.TokenConfig
	Resolver      PrincipalResolver
	WebhookSecret string
	Dependencies  map[string]Pinger
}

// Handler contains HTTP handlers
type Handler struct {
	Deps
}

// NewHandler creates a new HTTP handler
func NewHandler(deps Deps) *Handler {
	return &Handler{Deps: deps}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/medicines", h.listMedicines)
	router.GET("/medicines/discount", h.listDiscountedMedicines)
	router.GET("/medicine/:id", h.getMedicine)

	router.POST("/webhooks/stripe", h.stripeWebhook)

	r := router.Group("/", authenticate(h.Tokens, h.Resolver))

	identified := r.Group("/", requireIdentity())
	{
		identified.POST("/users/request", h.registerUser)
		identified.GET("/users/:email", h.getUserRole)
		identified.GET("/users/check/:email", h.checkUser)
		identified.PUT("/users/update-login-time/:email", h.touchLogin)
		identified.GET("/me/actions", h.myActions)
	}

	admin := r.Group("/", requireRoles(auth.AdminOnly))
	{
		admin.GET("/applied/sellers", h.listPendingSellers)
		admin.GET("/sellers/all", h.listSellerAccounts)
		admin.PATCH("/user/approval", h.decideSellerApplication)
		admin.DELETE("/admin/medicine/delete/:id", h.deleteMedicine)
		admin.GET("/admin/payments/all-confirmed", h.allConfirmed)
		admin.GET("/admin/summary", h.storeSummary)
		admin.GET("/admin/summary/live", h.liveSummary)
	}

	seller := r.Group("/", requireRoles(auth.SellerOnly))
	{
		seller.POST("/medicine/post", h.createMedicine)
		seller.PUT("/medicine/update/:id", h.updateMedicine)
		seller.DELETE("/medicine/:id", h.deleteMedicine)
	}

	staff := r.Group("/", requireRoles(auth.StaffAccess))
	{
		staff.GET("/medicine/seller/:email", h.listSellerMedicines)
		staff.GET("/seller/payment-history/:email", h.sellerHistory)
		staff.GET("/seller/summary/:email", h.sellerSummary)
	}

	buyer := r.Group("/", requireRoles(auth.BuyerOnly))
	{
		buyer.POST("/cart", h.addToCart)
		buyer.GET("/cart/:email", h.listCart)
		buyer.PATCH("/cart/quantity/:id", h.changeQuantity)
		buyer.DELETE("/cart/remove/:id", h.removeCartLine)
		buyer.DELETE("/cart/clear/:email", h.clearCart)

		buyer.POST("/order-medicine", h.orderMedicine)
		buyer.POST("/checkout/:id", h.checkoutCartLine)
		buyer.GET("/single-order/:id", h.getOrder)
		buyer.POST("/create-payment-intent", h.createPaymentIntent)
		buyer.PATCH("/cart/confirm-payment/:id", h.confirmPayment)
	}

	r.GET("/payments/history/:email", requireRoles(auth.Roles(auth.RoleUser, auth.RoleAdmin)), h.buyerHistory)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, dep := range h.Dependencies {
		if err := dep.Ping(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

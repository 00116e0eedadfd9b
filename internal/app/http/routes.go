package routes

import (
	"net/http"
	"path/filepath"

	adminapi "kaskelas/internal/api/admin"
	authapi "kaskelas/internal/api/auth"
	billingapi "kaskelas/internal/api/billing"
	expensesapi "kaskelas/internal/api/expenses"
	"kaskelas/internal/api/paymentwebhook"
	reportsapi "kaskelas/internal/api/reports"
	studentsapi "kaskelas/internal/api/students"
	"kaskelas/internal/app/http/middleware"
	"kaskelas/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// Handlers is everything the router mounts.
type Handlers struct {
	Sessions *authapi.Service
	Auth     *authapi.Handler
	Webhook  *paymentwebhook.Handler
	Billing  *billingapi.Handler
	Students *studentsapi.Handler
	Expenses *expensesapi.Handler
	Reports  *reportsapi.Handler
	Admin    *adminapi.Handler
	// WebDir holds the built dashboard; index.html is served for page routes.
	WebDir string
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// The webhook body is verified as received, so it skips sanitizing.
	r.POST("/api/webhooks/pakasir", h.Webhook.Pakasir)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Credentials are compared byte for byte, so login skips sanitizing too.
	r.POST("/api/auth/login", h.Auth.Login)
	r.POST("/api/auth/logout", h.Auth.Logout)
	r.GET("/api/auth/google", h.Auth.GoogleStart)
	r.GET("/api/auth/google/callback", h.Auth.GoogleCallback)

	// Authenticated
	api := r.Group("/api")
	api.Use(middleware.RequireSession(h.Sessions), middleware.SanitizeAndCleanInputMiddleware())
	api.GET("/auth/me", h.Auth.Me)

	api.GET("/students", h.Students.List)
	api.POST("/students", h.Students.Create)
	api.GET("/students/:id", h.Students.Get)
	api.PUT("/students/:id", h.Students.Update)
	api.DELETE("/students/:id", h.Students.Delete)

	api.GET("/categories", h.Billing.ListCategories)
	api.POST("/categories", h.Billing.CreateCategory)
	api.PUT("/categories/:id", h.Billing.UpdateCategory)

	api.GET("/payments", h.Billing.ListPayments)
	api.POST("/payments", h.Billing.IssuePayments)
	api.GET("/payments/:id", h.Billing.GetPayment)
	api.POST("/payments/:id/cancel", h.Billing.CancelPayment)
	api.POST("/payments/:id/remind", h.Billing.RemindPayment)

	api.GET("/expenses", h.Expenses.List)
	api.POST("/expenses", h.Expenses.Create)
	api.PUT("/expenses/:id", h.Expenses.Update)
	api.DELETE("/expenses/:id", h.Expenses.Delete)

	api.GET("/reports/summary", h.Reports.Summary)
	api.GET("/reports/activity", h.Reports.Activity)
	api.GET("/reports/payments.xlsx", h.Reports.ExportPayments)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(users.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users", h.Admin.CreateUser)

	registerPages(r, h)
}

func registerPages(r *gin.Engine, h Handlers) {
	index := filepath.Join(h.WebDir, "index.html")
	serveIndex := func(c *gin.Context) {
		c.File(index)
	}

	r.Static("/assets", filepath.Join(h.WebDir, "assets"))
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})

	pages := r.Group("/")
	pages.Use(middleware.EdgeGate("/dashboard"))
	pages.GET("/login", serveIndex)

	dashboard := pages.Group("/dashboard")
	dashboard.Use(middleware.RequirePageSession(h.Sessions))
	dashboard.GET("", serveIndex)
	dashboard.GET("/*page", serveIndex)
}

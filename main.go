package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kaskelas/config"
	"kaskelas/database"
	adminapi "kaskelas/internal/api/admin"
	authapi "kaskelas/internal/api/auth"
	billingapi "kaskelas/internal/api/billing"
	expensesapi "kaskelas/internal/api/expenses"
	"kaskelas/internal/api/paymentwebhook"
	reportsapi "kaskelas/internal/api/reports"
	studentsapi "kaskelas/internal/api/students"
	routes "kaskelas/internal/app/http"
	"kaskelas/internal/app/http/middleware"
	"kaskelas/internal/infra/cache"
	"kaskelas/internal/infra/pakasir"
	"kaskelas/internal/infra/whatsapp"
	"kaskelas/internal/notify"
	"kaskelas/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	logger := config.InitLogger()
	database.InitDB()

	s := store.New(database.DB)

	startup, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if n, err := s.Sessions.PurgeExpired(startup, time.Now()); err != nil {
		slog.Warn("could not purge expired sessions", "error", err)
	} else if n > 0 {
		slog.Info("purged expired sessions", "count", n)
	}
	reportCache := cache.Connect(startup, config.REDIS_ADDR)
	cancel()

	gateway := pakasir.NewClient(config.PAKASIR_BASE_URL, config.PAKASIR_PROJECT, config.PAKASIR_API_KEY, config.GATEWAY_TIMEOUT)
	sender := whatsapp.NewFonnte(config.FONNTE_BASE_URL, config.FONNTE_TOKEN, config.WHATSAPP_TIMEOUT)
	if config.FONNTE_TOKEN == "" {
		slog.Warn("FONNTE_TOKEN is not set, WhatsApp notifications are disabled")
	}
	notifier := notify.New(sender, s.Messages)

	sessions := authapi.NewService(s, config.SESSION_SECRET, config.COOKIE_SECURE)
	google := authapi.NewGoogle(config.GOOGLE_CLIENT_ID, config.GOOGLE_CLIENT_SECRET, config.GOOGLE_REDIRECT_URL, s.Users)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Sessions: sessions,
		Auth:     authapi.NewHandler(sessions, s.Activity, google),
		Webhook:  paymentwebhook.NewHandler(config.PAKASIR_PROJECT, gateway, s, reportCache, notifier),
		Billing:  billingapi.NewHandler(s, gateway, notifier, reportCache, config.APP_URL+"/dashboard/payments"),
		Students: studentsapi.NewHandler(s, reportCache),
		Expenses: expensesapi.NewHandler(s, reportCache),
		Reports:  reportsapi.NewHandler(s, reportCache),
		Admin:    adminapi.NewHandler(s),
		WebDir:   config.WEB_DIR,
	})

	slog.Info("listening", "port", config.PORT)
	if err := r.Run(":" + config.PORT); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

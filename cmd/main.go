package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/Stepheeeen/flairecosystem/internal/caching"
	"github.com/Stepheeeen/flairecosystem/internal/handlers"
	"github.com/Stepheeeen/flairecosystem/internal/jobs/background"
	"github.com/Stepheeeen/flairecosystem/internal/middleware"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
	"github.com/Stepheeeen/flairecosystem/internal/services"
	"github.com/Stepheeeen/flairecosystem/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.ClosePool(pool)

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Paystack configuration
	paystackSecret := os.Getenv("PAYSTACK_SECRET_KEY")
	if paystackSecret == "" {
		log.Fatal("PAYSTACK_SECRET_KEY environment variable is required")
	}
	platformFee := int64(0)
	if feeStr := os.Getenv("PLATFORM_TRANSACTION_FEE"); feeStr != "" {
		if fee, err := strconv.ParseInt(feeStr, 10, 64); err == nil {
			platformFee = fee
		}
	}
	platformSubaccount := os.Getenv("PAYSTACK_PLATFORM_SUBACCOUNT")
	if platformFee > 0 && platformSubaccount == "" {
		log.Printf("WARNING: PLATFORM_TRANSACTION_FEE set without PAYSTACK_PLATFORM_SUBACCOUNT; fee will not be charged")
	}

	// Tenant resolution
	rootDomain := os.Getenv("ROOT_DOMAIN")
	if rootDomain == "" {
		rootDomain = "flairecosystem.com"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "https://" + rootDomain
	}

	// Admin order transitions: permissive by default, strict opt-in
	transitionPolicy := services.PolicyPermissive
	if os.Getenv("ORDER_TRANSITION_POLICY") == "strict" {
		transitionPolicy = services.PolicyStrict
	}

	// SMTP configuration
	mailer := services.NewSMTPMailer(services.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	})

	// Create repositories
	companyRepo := repositories.NewCompanyRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	paystackSvc := services.NewPaystackService(paystackSecret)
	notificationSvc := services.NewNotificationService(notificationRepo)
	inventorySvc := services.NewInventoryService(productRepo, notificationSvc)
	companySvc := services.NewCompanyService(companyRepo, cacheSvc, rootDomain)
	productSvc := services.NewProductService(productRepo, cacheSvc)
	reviewSvc := services.NewReviewService(reviewRepo, productRepo)
	checkoutSvc := services.NewCheckoutService(productRepo, orderRepo, inventorySvc, paystackSvc, notificationSvc, platformFee, platformSubaccount)
	orderSvc := services.NewOrderService(orderRepo, companyRepo, userRepo, paystackSvc, mailer, notificationSvc, transitionPolicy)
	authSvc := services.NewAuthService(userRepo, mailer, jwtSecret, 24*time.Hour, baseURL)
	platformSvc := services.NewPlatformService(settingsRepo, companyRepo, userRepo, cacheSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(companyRepo, productRepo, userRepo, notificationSvc, notificationRepo)

	// Create handlers
	healthHandlers := handlers.NewHealthHandlers(pool, scheduler.GetJobStatus)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	companyHandlers := handlers.NewCompanyHandlers(companySvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	reviewHandlers := handlers.NewReviewHandlers(reviewSvc, authSvc)
	checkoutHandlers := handlers.NewCheckoutHandlers(checkoutSvc)
	webhookHandlers := handlers.NewWebhookHandlers(paystackSvc, orderSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	notificationHandlers := handlers.NewNotificationHandlers(notificationSvc)
	platformHandlers := handlers.NewPlatformHandlers(platformSvc, userRepo)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.Maintenance(platformSvc))
	e.Use(middleware.TenantResolver(companySvc))

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)

	// Suspension landing page
	e.GET("/suspended", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "This store is currently unavailable.",
		})
	})

	// Payment gateway callbacks bypass auth; the signature is the auth.
	e.POST("/webhooks/paystack", webhookHandlers.PaystackWebhook)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login,
		middleware.RateLimit(cacheSvc, "login", 10, time.Minute))
	auth.POST("/logout", authHandlers.Logout)
	auth.POST("/forgot-password", authHandlers.ForgotPassword,
		middleware.RateLimit(cacheSvc, "forgot-password", 5, time.Minute))
	auth.POST("/reset-password", authHandlers.ResetPassword)
	auth.POST("/verify-email", authHandlers.VerifyEmail)
	auth.GET("/me", authHandlers.Me, middleware.JWTMiddleware(jwtSecret))
	auth.PUT("/me", authHandlers.UpdateMe, middleware.JWTMiddleware(jwtSecret))

	// Public store profile lookup (slug first, then ID)
	v1.GET("/companies/:identifier", companyHandlers.GetCompany)

	// Storefront routes, addressed by path when no store domain is used
	store := v1.Group("/store/:company", middleware.TenantFromParam(companySvc, "company"))
	store.GET("/products", productHandlers.ListProducts)
	store.GET("/products/:id", productHandlers.GetProduct)
	store.GET("/products/:id/reviews", reviewHandlers.ListReviews)
	store.POST("/products/:id/reviews", reviewHandlers.SubmitReview, middleware.JWTMiddleware(jwtSecret))
	store.POST("/checkout", checkoutHandlers.Checkout, middleware.OptionalJWT(jwtSecret))
	store.GET("/account/orders", orderHandlers.MyOrders, middleware.JWTMiddleware(jwtSecret))

	// Company admin routes
	admin := v1.Group("/admin",
		middleware.JWTMiddleware(jwtSecret),
		middleware.RequireRole(models.RoleAdmin),
		middleware.AdminTenant(companySvc),
		middleware.RequireCompanyMatch(),
	)
	admin.PUT("/company", companyHandlers.UpdateCompany)
	admin.POST("/products", productHandlers.CreateProduct)
	admin.PUT("/products/:id", productHandlers.UpdateProduct)
	admin.DELETE("/products/:id", productHandlers.DeleteProduct)
	admin.GET("/stats", orderHandlers.Stats)
	admin.GET("/orders", orderHandlers.ListOrders)
	admin.GET("/orders/:id", orderHandlers.GetOrder)
	admin.PATCH("/orders/:id", orderHandlers.UpdateOrderStatus)
	admin.GET("/reviews", reviewHandlers.ListCompanyReviews)
	admin.PATCH("/reviews/:id", reviewHandlers.SetApproval)
	admin.DELETE("/reviews/:id", reviewHandlers.DeleteReview)
	admin.GET("/notifications", notificationHandlers.Feed)
	admin.PATCH("/notifications/:id", notificationHandlers.MarkRead)
	admin.POST("/notifications/read-all", notificationHandlers.MarkAllRead)

	// Platform operator routes
	platform := v1.Group("/platform",
		middleware.JWTMiddleware(jwtSecret),
		middleware.RequireRole(models.RoleSuperAdmin),
	)
	platform.GET("/companies", companyHandlers.ListCompanies)
	platform.POST("/companies", companyHandlers.CreateCompany)
	platform.PATCH("/companies/:identifier/status", companyHandlers.SetStatus)
	platform.GET("/users", platformHandlers.ListUsers)
	platform.PATCH("/users/:id", platformHandlers.UpdateUserRole)
	platform.GET("/settings", platformHandlers.GetSettings)
	platform.PUT("/settings", platformHandlers.UpdateSettings)
	platform.GET("/stats", platformHandlers.Stats)

	// Start background jobs
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Flair Ecosystem server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}

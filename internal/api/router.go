package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/natours/tour-booking-api/internal/api/handler"
	"github.com/natours/tour-booking-api/internal/api/middleware"
	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
	"github.com/natours/tour-booking-api/internal/core/service"
	"github.com/natours/tour-booking-api/internal/infrastructure/config"
	mongodb "github.com/natours/tour-booking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/natours/tour-booking-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with every route registered: the JSON
// API under /api/v1, the rendered pages, the health probes and the
// operational endpoints.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, mailer ports.Mailer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("natours"))

	e.Validator = handler.NewValidator()
	e.Renderer = handler.NewRenderer()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Development())

	// --- Dependencies ---
	tourRepo := mongodb.NewTourRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)

	limiter := redisdb.NewResetLimiter(rdb)
	authService := service.NewAuthService(userRepo, mailer, limiter, cfg.JWT.Secret, cfg.JWT.ExpiresIn, log)
	payments := service.NewPaymentService(cfg.Stripe.SecretKey, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)

	authHandler := handler.NewAuthHandler(authService, cfg.Mail.BaseURL, cfg.JWT.ExpiresIn, !cfg.Development())
	tourHandler := handler.NewTourHandler(tourRepo)
	userHandler := handler.NewUserHandler(userRepo)
	reviewHandler := handler.NewReviewHandler(reviewRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, tourRepo, payments)
	viewHandler := handler.NewViewHandler(tourRepo)
	healthHandler := handler.NewHealthHandler(db, rdb)

	protect := middleware.Protect(authService)
	loggedIn := middleware.IsLoggedIn(authService)
	staffOnly := middleware.RestrictTo(domain.RoleAdmin, domain.RoleLeadGuide)
	adminOnly := middleware.RestrictTo(domain.RoleAdmin)

	// --- Rendered pages ---
	e.GET("/", viewHandler.Overview, loggedIn)
	e.GET("/tour/:slug", viewHandler.Tour, loggedIn)

	// --- Tours ---
	tours := e.Group("/api/v1/tours")
	tours.GET("", tourHandler.GetAll())
	tours.GET("/top-5-cheap", handler.AliasTopTours(tourHandler.GetAll()))
	tours.GET("/:id", tourHandler.GetOne())
	tours.POST("", tourHandler.CreateOne(), protect, staffOnly)
	tours.PATCH("/:id", tourHandler.UpdateOne(), protect, staffOnly)
	tours.DELETE("/:id", tourHandler.DeleteOne(), protect, staffOnly)

	// Reviews nested under a tour.
	tours.GET("/:tourId/reviews", reviewHandler.GetAll(), protect)
	tours.POST("/:tourId/reviews", reviewHandler.CreateOne(), protect, middleware.RestrictTo(domain.RoleUser))

	// --- Users ---
	users := e.Group("/api/v1/users")
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout)
	users.POST("/forgotPassword", authHandler.ForgotPassword)
	users.PATCH("/resetPassword/:token", authHandler.ResetPassword)

	users.PATCH("/updateMyPassword", authHandler.UpdatePassword, protect)
	users.GET("/me", userHandler.Me, protect)

	users.GET("", userHandler.GetAll(), protect, adminOnly)
	users.POST("", userHandler.CreateOne, protect, adminOnly)
	users.GET("/:id", userHandler.GetOne(), protect, adminOnly)
	users.PATCH("/:id", userHandler.UpdateOne(), protect, adminOnly)
	users.DELETE("/:id", userHandler.DeleteOne(), protect, adminOnly)

	// --- Reviews ---
	reviews := e.Group("/api/v1/reviews", protect)
	reviews.GET("", reviewHandler.GetAll())
	reviews.GET("/:id", reviewHandler.GetOne())
	reviews.POST("", reviewHandler.CreateOne(), middleware.RestrictTo(domain.RoleUser))
	reviews.PATCH("/:id", reviewHandler.UpdateOne(), middleware.RestrictTo(domain.RoleUser, domain.RoleAdmin))
	reviews.DELETE("/:id", reviewHandler.DeleteOne(), middleware.RestrictTo(domain.RoleUser, domain.RoleAdmin))

	// --- Bookings ---
	bookings := e.Group("/api/v1/bookings", protect)
	bookings.GET("/checkout-session/:tourId", bookingHandler.CheckoutSession)
	bookings.GET("", bookingHandler.GetAll(), staffOnly)
	bookings.GET("/:id", bookingHandler.GetOne(), staffOnly)
	bookings.POST("", bookingHandler.CreateOne(), staffOnly)
	bookings.PATCH("/:id", bookingHandler.UpdateOne(), staffOnly)
	bookings.DELETE("/:id", bookingHandler.DeleteOne(), staffOnly)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return domain.NotFound("Can't find " + c.Request().URL.Path + " on this server!")
	})

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/application/analytics"
	"github.com/shopfront/gateway/internal/application/auth"
	"github.com/shopfront/gateway/internal/application/cart"
	"github.com/shopfront/gateway/internal/application/catalog"
	"github.com/shopfront/gateway/internal/application/directory"
	"github.com/shopfront/gateway/internal/application/ordering"
	"github.com/shopfront/gateway/internal/application/report"
	"github.com/shopfront/gateway/internal/infrastructure/config"
	"github.com/shopfront/gateway/internal/infrastructure/logger"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/dto"
	"github.com/shopfront/gateway/internal/interfaces/http/handler"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs wired in
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry

	Upstream  *upstream.Client
	AdminAuth *auth.AdminService
	CustAuth  *auth.CustomerService
	Ordering  *ordering.Service
	Cart      *cart.Service
	Catalog   *catalog.Service
	Report    *report.Service
	Directory *directory.Service
	Analytics *analytics.Service

	Version string
}

// Setup builds the gin engine with the full middleware stack and all
// routes registered
func Setup(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidations(); err != nil {
		deps.Logger.Warn("failed to register custom validations", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	if cfg.Metrics.Enabled && deps.Registry != nil {
		metrics := middleware.NewHTTPMetrics(deps.Registry)
		engine.Use(metrics.Handler())
		engine.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	var authLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit = middleware.RateLimit(authLimiter)
	} else {
		authLimit = func(c *gin.Context) { c.Next() }
	}

	cookies := middleware.CookieWriter{
		Domain:   cfg.Cookie.Domain,
		Path:     cfg.Cookie.Path,
		Secure:   cfg.Cookie.Secure,
		SameSite: middleware.ParseSameSite(cfg.Cookie.SameSite),
	}

	adminGuard := middleware.AdminAuth(deps.AdminAuth, cfg.Session.AdminCookieName, cookies)
	customerGuard := middleware.CustomerAuth(deps.CustAuth, cfg.Session.CustomerCookieName, cookies)

	systemHandler := handler.NewSystemHandler(deps.Version)
	adminAuthHandler := handler.NewAdminAuthHandler(deps.AdminAuth, cfg.Session.AdminCookieName, cookies)
	customerAuthHandler := handler.NewCustomerAuthHandler(deps.CustAuth, cfg.Session.CustomerCookieName, cookies)
	orderHandler := handler.NewOrderHandler(deps.Ordering)
	cartHandler := handler.NewCartHandler(deps.Cart)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog, cfg.Cookie.Secure)
	reportHandler := handler.NewReportHandler(deps.Report)
	directoryHandler := handler.NewDirectoryHandler(deps.Directory)
	checkoutHandler := handler.NewCheckoutHandler(deps.Upstream)

	engine.GET("/health", systemHandler.Health)

	admin := engine.Group("/admin")
	{
		adminAuth := admin.Group("/auth")
		{
			adminAuth.POST("/login", authLimit, adminAuthHandler.Login)
			adminAuth.POST("/sign-out", adminAuthHandler.SignOut)
			adminAuth.GET("/self", adminGuard, adminAuthHandler.Self)
		}

		protected := admin.Group("")
		protected.Use(adminGuard)
		{
			orders := protected.Group("/orders")
			{
				orders.GET("", orderHandler.List)
				orders.GET("/:id", orderHandler.Get)
				orders.PATCH("/:id/status", orderHandler.ChangeStatus)
				orders.POST("/:id/cancel", orderHandler.Cancel)
				orders.POST("/:id/cancellation", orderHandler.ResolveCancellation)
				orders.POST("/:id/notes", orderHandler.AddNote)
				orders.POST("/:id/documents", orderHandler.GenerateDocument)
				orders.POST("/:id/emails", orderHandler.SendEmail)
			}

			reports := protected.Group("/reports")
			{
				reports.GET("/dashboard", reportHandler.Dashboard)
				reports.GET("/orders/export", reportHandler.ExportOrders)
			}

			taxes := protected.Group("/taxes")
			{
				taxes.GET("", directoryHandler.ListTaxes)
				taxes.POST("", directoryHandler.CreateTax)
				taxes.PUT("/:id", directoryHandler.UpdateTax)
				taxes.DELETE("/:id", directoryHandler.DeleteTax)
			}

			promotions := protected.Group("/promotions")
			{
				promotions.GET("", directoryHandler.ListPromotions)
				promotions.POST("", directoryHandler.CreatePromotion)
				promotions.PUT("/:id", directoryHandler.UpdatePromotion)
				promotions.DELETE("/:id", directoryHandler.DeletePromotion)
			}

			giftCards := protected.Group("/gift-cards")
			{
				giftCards.GET("", directoryHandler.ListGiftCards)
				giftCards.POST("", directoryHandler.CreateGiftCard)
				giftCards.PUT("/:id", directoryHandler.UpdateGiftCard)
				giftCards.DELETE("/:id", directoryHandler.DeleteGiftCard)
			}

			customers := protected.Group("/customers")
			{
				customers.GET("", directoryHandler.ListCustomers)
				customers.GET("/:id", directoryHandler.GetCustomer)
				customers.DELETE("/:id", directoryHandler.DeleteCustomer)
			}
		}
	}

	store := engine.Group("/store")
	{
		storeAuth := store.Group("/auth")
		{
			storeAuth.POST("/login", authLimit, customerAuthHandler.Login)
			storeAuth.POST("/register", authLimit, customerAuthHandler.Register)
			storeAuth.POST("/sign-out", customerAuthHandler.SignOut)
			storeAuth.GET("/self", customerGuard, customerAuthHandler.Self)
		}

		products := store.Group("/products")
		{
			products.GET("", catalogHandler.Listing)
			products.POST("/search", catalogHandler.Search)
			products.POST("/category", catalogHandler.SetCategory)
			products.POST("/sort", catalogHandler.SetSort)
			products.POST("/price-range", catalogHandler.SetPriceRange)
			products.POST("/specifications", catalogHandler.ToggleSpecification)
			products.DELETE("/filters", catalogHandler.ClearFilters)
			products.POST("/more", catalogHandler.LoadMore)
			products.GET("/:slug", catalogHandler.GetProduct)
		}
		store.GET("/categories", catalogHandler.ListCategories)

		store.POST("/order-lookup", checkoutHandler.Lookup)

		if deps.Analytics != nil {
			analyticsHandler := handler.NewAnalyticsHandler(deps.Analytics)
			store.POST("/analytics/events", analyticsHandler.Track)
		}

		session := store.Group("")
		session.Use(customerGuard)
		{
			sessionCart := session.Group("/cart")
			{
				sessionCart.GET("", cartHandler.Get)
				sessionCart.POST("/items", cartHandler.AddItem)
				sessionCart.PATCH("/items/:id", cartHandler.UpdateQuantity)
				sessionCart.DELETE("/items/:id", cartHandler.RemoveItem)
				sessionCart.POST("/promotion", cartHandler.ApplyPromotion)
				sessionCart.DELETE("/promotion", cartHandler.RemovePromotion)
			}

			session.GET("/orders", checkoutHandler.Orders)
			session.POST("/orders/:id/cancellation", checkoutHandler.RequestCancellation)
		}
	}

	return engine
}

package routes

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"burst-backend/internal/api/handlers"
	"burst-backend/internal/api/middleware"
	"burst-backend/internal/auth"
	"burst-backend/internal/config"
	"burst-backend/internal/feed"
	"burst-backend/internal/notify"
	"burst-backend/internal/repository"
	"burst-backend/internal/service"
	"burst-backend/internal/storage"
	"burst-backend/internal/web"
	"burst-backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var workflowActions = []workflow.Action{
	workflow.ActionSubmit,
	workflow.ActionApprove,
	workflow.ActionHold,
	workflow.ActionReject,
	workflow.ActionPublish,
	workflow.ActionArchive,
	workflow.ActionRestore,
}

// Server is the assembled HTTP application
type Server struct {
	Router *gin.Engine
	// Handler wraps Router with the web session manager
	Handler    http.Handler
	dispatcher notify.Dispatcher
}

// Shutdown drains pending email deliveries
func (s *Server) Shutdown(ctx context.Context) error {
	return s.dispatcher.Shutdown(ctx)
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(ctx context.Context, db *gorm.DB, cfg *config.Config, version string) (*Server, error) {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.AllowedHosts(cfg.AllowedHosts))
	router.Use(middleware.CORS(cfg))

	validator := service.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	publisherRepo := repository.NewPublisherRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	resetTokenRepo := repository.NewPasswordResetTokenRepository(db)
	sessionStore := repository.NewSessionStore(db)

	// Delivery and media backends
	dispatcher, queue := notify.DispatcherFromConfig(cfg, notify.MailerFromConfig(cfg))
	images, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	// Initialize services
	engine := workflow.NewEngine()
	notificationService := service.NewNotificationService(notificationRepo, subscriptionRepo, dispatcher, cfg)
	articleService := service.NewArticleService(articleRepo, categoryRepo, engine, notificationService, images, validator)
	newsletterService := service.NewNewsletterService(newsletterRepo, engine, notificationService, images, validator)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, publisherRepo, userRepo)
	publisherService := service.NewPublisherService(publisherRepo, userRepo, articleRepo, newsletterRepo, subscriptionRepo, validator)
	categoryService := service.NewCategoryService(categoryRepo)
	accountService := service.NewAccountService(userRepo, publisherRepo, resetTokenRepo, dispatcher, cfg, validator)

	// Initialize auth
	authConfig := auth.NewAuthConfig(cfg)
	if err := authConfig.ValidateConfig(); err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenService(authConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	sessions := auth.NewSessionManager(sessionStore, authConfig)
	authMiddleware := auth.NewAuthMiddleware(tokens, accountService, sessions)
	authHandler := auth.NewAuthHandler(accountService, tokens)

	// Initialize handlers
	deps := map[string]handlers.Pinger{}
	if queue != nil {
		deps["redis"] = queue
	}
	healthHandler := handlers.NewHealthHandler(db, version, deps)
	articleHandler := handlers.NewArticleHandler(articleService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	publisherHandler := handlers.NewPublisherHandler(publisherService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	feedHandler := feed.NewHandler(articleService, cfg)

	views, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	site := web.NewSite(web.Services{
		Articles:      articleService,
		Newsletters:   newsletterService,
		Subscriptions: subscriptionService,
		Publishers:    publisherService,
		Categories:    categoryService,
		Accounts:      accountService,
	}, sessions, views)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.MediaBackend == "local" && strings.HasPrefix(cfg.MediaURL, "/") {
		router.Static(strings.TrimRight(cfg.MediaURL, "/"), cfg.MediaRoot)
	}

	router.GET("/feed/", feedHandler.Feed)
	router.GET("/sitemap.xml", feedHandler.Sitemap)

	api := router.Group("/api")
	api.POST("/auth/token/", authHandler.Token)

	// Read endpoints are open; anonymous callers see published content only
	public := api.Group("", authMiddleware.OptionalAuth())
	{
		public.GET("/articles/", articleHandler.ListArticles)
		public.GET("/articles/:id/", articleHandler.GetArticle)
		public.GET("/newsletters/", newsletterHandler.ListNewsletters)
		public.GET("/newsletters/:id/", newsletterHandler.GetNewsletter)
		public.GET("/publishers/", publisherHandler.ListPublishers)
		public.GET("/publishers/:id/", publisherHandler.GetPublisher)
		public.GET("/categories/", categoryHandler.ListCategories)
	}

	protected := api.Group("", authMiddleware.RequireAuth())
	{
		articles := protected.Group("/articles")
		{
			articles.POST("/", articleHandler.CreateArticle)
			articles.PUT("/:id/", articleHandler.UpdateArticle)
			articles.PATCH("/:id/", articleHandler.UpdateArticle)
			articles.DELETE("/:id/", articleHandler.DeleteArticle)
			articles.POST("/:id/image/", articleHandler.UploadImage)
			for _, action := range workflowActions {
				articles.POST("/:id/"+string(action)+"/", articleHandler.Transition(action))
			}
		}

		newsletters := protected.Group("/newsletters")
		{
			newsletters.POST("/", newsletterHandler.CreateNewsletter)
			newsletters.PUT("/:id/", newsletterHandler.UpdateNewsletter)
			newsletters.PATCH("/:id/", newsletterHandler.UpdateNewsletter)
			newsletters.DELETE("/:id/", newsletterHandler.DeleteNewsletter)
			newsletters.POST("/:id/cover/", newsletterHandler.UploadCover)
			for _, action := range workflowActions {
				newsletters.POST("/:id/"+string(action)+"/", newsletterHandler.Transition(action))
			}
		}

		protected.POST("/publishers/", publisherHandler.CreatePublisher)
		protected.PUT("/publishers/:id/", publisherHandler.UpdatePublisher)
		protected.GET("/dashboard/", publisherHandler.Dashboard)
		protected.POST("/dashboard/members/", publisherHandler.AddMember)

		subscriptions := protected.Group("/subscriptions")
		{
			subscriptions.GET("/", subscriptionHandler.ListSubscriptions)
			subscriptions.POST("/", subscriptionHandler.Subscribe)
			subscriptions.DELETE("/", subscriptionHandler.Unsubscribe)
			subscriptions.DELETE("/:id/", subscriptionHandler.DeleteSubscription)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("/", notificationHandler.ListNotifications)
			notifications.POST("/:id/read/", notificationHandler.MarkRead)
		}
	}

	// Server-rendered site
	site.Routes(router, authMiddleware)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "not found", Code: "not_found"})
			return
		}
		site.NotFound(c)
	})

	return &Server{Router: router, Handler: sessions.LoadAndSave(router), dispatcher: dispatcher}, nil
}

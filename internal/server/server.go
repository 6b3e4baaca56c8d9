package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"anoa.com/jornalufc/internal/config"
	"anoa.com/jornalufc/internal/middleware"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/password"
	"anoa.com/jornalufc/pkg/ratelimiter"
	"anoa.com/jornalufc/pkg/storage"
	"anoa.com/jornalufc/pkg/token"
	"anoa.com/jornalufc/pkg/validator"

	articleHttp "anoa.com/jornalufc/internal/modules/article/delivery/http"
	articleRepo "anoa.com/jornalufc/internal/modules/article/repository"
	articleService "anoa.com/jornalufc/internal/modules/article/service"

	categoryHttp "anoa.com/jornalufc/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/jornalufc/internal/modules/category/repository"
	categoryService "anoa.com/jornalufc/internal/modules/category/service"

	commentHttp "anoa.com/jornalufc/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/jornalufc/internal/modules/comment/repository"
	commentService "anoa.com/jornalufc/internal/modules/comment/service"

	eventHttp "anoa.com/jornalufc/internal/modules/event/delivery/http"
	eventRepo "anoa.com/jornalufc/internal/modules/event/repository"
	eventService "anoa.com/jornalufc/internal/modules/event/service"

	notification "anoa.com/jornalufc/internal/modules/notification/service"

	reactionHttp "anoa.com/jornalufc/internal/modules/reaction/delivery/http"
	reactionRepo "anoa.com/jornalufc/internal/modules/reaction/repository"
	reactionService "anoa.com/jornalufc/internal/modules/reaction/service"

	userHttp "anoa.com/jornalufc/internal/modules/user/delivery/http"
	userRepo "anoa.com/jornalufc/internal/modules/user/repository"
	userService "anoa.com/jornalufc/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the collaborators built by the caller. Redis is optional.
type Deps struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Storage    storage.ImageStorage
	Dispatcher notification.Dispatcher
	Hasher     password.Hasher
}

type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	http   *http.Server
	deps   Deps
	logger zerolog.Logger
}

func NewServer(cfg *config.Config, deps Deps, logger zerolog.Logger) (*Server, error) {
	if err := validator.RegisterRules(cfg.ProfessorEmailDomain); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}
	if deps.Hasher == nil {
		deps.Hasher = password.NewBcryptHasher(0)
	}

	limiter := ratelimiter.New(deps.Redis)

	usersRepo := userRepo.NewUserRepository(deps.DB)
	userSvc := userService.NewService(
		usersRepo,
		deps.Hasher,
		token.NewJWTIssuer(cfg.JWTSecret),
		deps.Dispatcher,
		limiter,
		userService.Options{
			PublicBaseURL:  cfg.PublicBaseURL,
			AccessTokenTTL: cfg.AccessTokenTTL,
			ResetTokenTTL:  cfg.ResetTokenTTL,
			LoginCooldown:  cfg.RateLimitLogin,
		},
		logger.With().Str("module", "user").Logger(),
	)
	authHandler := userHttp.NewAuthHandler(userSvc)
	userHandler := userHttp.NewUserHandler(userSvc)

	categoriesRepo := categoryRepo.NewCategoryRepository(deps.DB)
	categorySvc := categoryService.NewCategoryService(categoriesRepo)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	articleSvc := articleService.NewService(
		articleRepo.NewRepository(deps.DB),
		articleRepo.NewTagRepository(deps.DB),
		categoriesRepo,
		deps.Storage,
		limiter,
		articleService.Options{CreateCooldown: cfg.RateLimitArticle},
		logger.With().Str("module", "article").Logger(),
	)
	articleHandler := articleHttp.NewArticleHandler(articleSvc)

	commentSvc := commentService.NewCommentService(commentRepo.NewCommentRepository(deps.DB))
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	likeSvc := reactionService.NewLikeService(reactionRepo.NewLikeRepository(deps.DB))
	likeHandler := reactionHttp.NewLikeHandler(likeSvc)

	eventSvc := eventService.NewEventService(
		eventRepo.NewEventRepository(deps.DB),
		deps.Storage,
		logger.With().Str("module", "event").Logger(),
	)
	eventHandler := eventHttp.NewEventHandler(eventSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	if cfg.StorageDriver == "local" && strings.HasPrefix(cfg.UploadBaseURL, "/") {
		router.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	authMiddleware := middleware.NewAuthMiddleware(userSvc)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/verify", authHandler.Verify)
		auth.POST("/recover-password", authHandler.RecoverPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	api.POST("/users", userHandler.Signup)
	api.GET("/articles", articleHandler.ListArticles)
	api.GET("/articles/slug/:slug", articleHandler.GetBySlug)
	api.GET("/articles/:id", articleHandler.GetByID)
	api.GET("/articles/:id/comments", commentHandler.ListComments)
	api.GET("/categories", categoryHandler.GetAllCategories)
	api.GET("/tags", articleHandler.ListTags)
	api.GET("/events", eventHandler.ListEvents)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/users", authMiddleware.RequireRole(policy.RoleAdmin), userHandler.ListUsers)
		protected.GET("/users/me", userHandler.Me)
		protected.PATCH("/users/:id/scholarship", userHandler.BecomeScholarship)
		protected.PATCH("/users/:id/reader", userHandler.BecomeReader)

		professors := protected.Group("/professors/me")
		professors.Use(authMiddleware.RequireRole(policy.RoleProfessor))
		{
			professors.GET("/students", userHandler.ListStudents)
			professors.POST("/students/:id/approve", userHandler.ApproveStudent)
			professors.DELETE("/students/:id", userHandler.EndSponsorship)
		}

		protected.POST("/articles", articleHandler.CreateArticle)
		protected.PUT("/articles/:id", articleHandler.UpdateArticle)
		protected.DELETE("/articles/:id", articleHandler.DeleteArticle)
		protected.POST("/articles/:id/comments", commentHandler.AddComment)
		protected.POST("/articles/:id/like", likeHandler.ToggleArticleLike)

		protected.DELETE("/comments/:id", commentHandler.DeleteComment)
		protected.POST("/comments/:id/like", likeHandler.ToggleCommentLike)

		protected.POST("/categories", categoryHandler.CreateCategory)
		protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		protected.POST("/events", eventHandler.CreateEvent)
		protected.DELETE("/events/:id", eventHandler.DeleteEvent)
	}

	return &Server{
		cfg:    cfg,
		engine: router,
		deps:   deps,
		logger: logger,
	}, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until SIGINT/SIGTERM and then shuts down gracefully.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
	}

	return s.Shutdown(context.Background())
}

// Shutdown stops accepting requests, flushes queued e-mails and closes the
// database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if s.deps.Dispatcher != nil {
		s.deps.Dispatcher.Close()
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	if s.deps.DB != nil {
		if sqlDB, err := s.deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("database close: %w", err))
			}
		}
	}

	s.logger.Info().Msg("server shutdown complete")
	return errors.Join(errs...)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

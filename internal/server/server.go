package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/recordbook/apiserver/config"
	"github.com/recordbook/apiserver/internal/db"
	"github.com/recordbook/apiserver/internal/handlers"
	"github.com/recordbook/apiserver/internal/services"
	"github.com/recordbook/apiserver/internal/session"
	"github.com/recordbook/apiserver/internal/store"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and its backing connections.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	sessions   *session.RedisStore
	logger     *zap.Logger
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions := session.NewRedisStore(cfg.Redis)
	if err := sessions.Ping(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	userRepo := store.NewUserRepository(dbConn)
	categoryRepo := store.NewCategoryRepository(dbConn)
	recordRepo := store.NewRecordRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)

	userService := services.NewUserService(userRepo, recordRepo)
	categoryService := services.NewCategoryService(categoryRepo, recordRepo)
	recordService := services.NewRecordService(recordRepo, categoryRepo)
	commentService := services.NewCommentService(commentRepo, recordRepo)

	cookies := session.Cookies{Production: cfg.IsProduction()}
	authMiddleware := handlers.RequireAuth(sessions)

	authHandler := handlers.NewAuthHandler(userService, sessions, cookies, logger)
	userHandler := handlers.NewUserHandler(userService, sessions, cookies, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.Healthz)
	router.Route("/user", func(r chi.Router) {
		handlers.UserRouter(r, authHandler, userHandler, authMiddleware)
	})
	router.Route("/category", func(r chi.Router) {
		handlers.CategoryRouter(r, categoryService, authMiddleware)
	})
	router.Route("/record", func(r chi.Router) {
		handlers.RecordRouter(r, recordService, authMiddleware)
	})
	router.Route("/comment", func(r chi.Router) {
		handlers.CommentRouter(r, commentService, authMiddleware)
	})
	if cfg.Google.Enabled() {
		oauthHandler := handlers.NewOAuthHandler(userService, sessions, sessions, cookies, cfg.Google, logger)
		router.Route("/auth", func(r chi.Router) {
			handlers.OAuthRouter(r, oauthHandler)
		})
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		sessions:   sessions,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.sessions != nil {
		_ = s.sessions.Close()
	}
	return s.httpServer.Close()
}

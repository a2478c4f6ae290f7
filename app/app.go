package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/account-service/configs"
	"github.com/nimeshabuddhika/account-service/internal/handlers"
	"github.com/nimeshabuddhika/account-service/internal/repositories"
	"github.com/nimeshabuddhika/account-service/internal/services"
	"github.com/nimeshabuddhika/account-service/pkg"
	"github.com/nimeshabuddhika/account-service/pkg/database"
	middleware "github.com/nimeshabuddhika/account-service/pkg/middlewares"
	"go.uber.org/zap"
)

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}

	// Initialize postgres db
	dbConfig := database.Config{
		DSN:      cfg.DatabaseURI,
		MaxConns: cfg.MaxDbCons,
		MinConns: cfg.MinDbCons,
	}
	db, disconnect, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		return nil, nil, err
	}

	// Create the accounts table if absent
	if err := database.RunMigrations(logger, cfg.DatabaseURI); err != nil {
		disconnect()
		return nil, nil, err
	}

	// Setup dependencies
	accountRepo := repositories.NewAccountRepository(db)
	accountService := services.NewAccountService(logger, db, accountRepo)
	accountHandler := handlers.NewAccountHandler(logger, accountService)
	baseHandler := handlers.NewBaseHandler(logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: NewRouter(logger, accountHandler, baseHandler),
	}

	cleanup := func() {
		// close db pool
		disconnect()
	}

	return srv, cleanup, nil
}

// NewRouter builds the Gin engine with middleware and routes. Split out
// from NewApp so tests can exercise the full routing table without a
// database.
func NewRouter(logger *zap.Logger, accountHandler *handlers.AccountHandler, baseHandler *handlers.BaseHandler) *gin.Engine {
	r := gin.Default()

	// PATCH/DELETE on the collection path must yield 405, not 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(pkg.ErrMethodNotAllowedCode.Status, pkg.ErrorResponse{
			Code:    pkg.ErrMethodNotAllowedCode.Code,
			Message: pkg.ErrMethodNotAllowedCode.Message,
		})
	})

	api := r.Group("/")
	api.Use(middleware.TraceID())
	api.Use(middleware.Metrics())

	accountHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)

	return r
}

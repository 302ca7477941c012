package di

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-api/cmd/api/infrastructure"
	"user-crud-api/internal/adapter/db/postgres"
	ginhandler "user-crud-api/internal/adapter/gin/handler"
	"user-crud-api/internal/config"
	"user-crud-api/internal/usecase/user"
)

// Container holds all application dependencies.
// Everything is explicitly constructed and injected; nothing in the
// application reads a package-level database handle.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	UserUC      user.Usecase
	UserHandler *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repository
	repo := postgres.NewUserRepoPG(db, l)

	// Initialize use case
	userUC := user.New(repo, l)

	// Initialize HTTP handler
	userHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		UserUC:      userUC,
		UserHandler: userHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}

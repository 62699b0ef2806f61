package di

import (
	"fmt"

	"go.uber.org/zap"

	ginhandler "library-service/internal/adapter/gin/handler"
	"library-service/internal/adapter/repository/jsonfile"
	"library-service/internal/config"
	"library-service/internal/usecase/book"
	"library-service/internal/usecase/user"
	"library-service/pkg/jsonstore"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       *jsonstore.Store
	BookRepo    *jsonfile.BookRepo
	UserRepo    *jsonfile.UserRepo
	BookUC      book.Usecase
	UserUC      user.Usecase
	BookHandler *ginhandler.BookHandler
	UserHandler *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize the JSON file store
	store, err := jsonstore.New(cfg.Store.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	// Initialize repositories; each loads its collection from disk once and
	// owns the authoritative in-memory copy from then on
	bookRepo, err := jsonfile.NewBookRepo(store, l)
	if err != nil {
		return nil, fmt.Errorf("failed to load book collection: %w", err)
	}
	userRepo, err := jsonfile.NewUserRepo(store, l)
	if err != nil {
		return nil, fmt.Errorf("failed to load user collection: %w", err)
	}

	// Initialize use cases
	userUC := user.New(userRepo, l)
	bookUC := book.New(bookRepo, userRepo, l)

	// Initialize Gin handlers
	bookHandler := ginhandler.NewBookHandler(bookUC, l)
	userHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		Store:       store,
		BookRepo:    bookRepo,
		UserRepo:    userRepo,
		BookUC:      bookUC,
		UserUC:      userUC,
		BookHandler: bookHandler,
		UserHandler: userHandler,
	}, nil
}

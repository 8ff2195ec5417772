// Package bootstrap builds the store, storage and services shared by the
// server and cronjob binaries.
package bootstrap

import (
	"context"
	"fmt"

	"vighnaharta-backend/internal/config"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/repository"
	"vighnaharta-backend/internal/repository/bolt"
	"vighnaharta-backend/internal/repository/postgres"
	"vighnaharta-backend/internal/repository/sqlite"
	"vighnaharta-backend/internal/security"
	"vighnaharta-backend/internal/service"
	"vighnaharta-backend/internal/storage"
)

// App is the wired service graph.
type App struct {
	Store      repository.Store
	Images     storage.StorageInterface
	Email      service.EmailService
	Organizers *service.OrganizerDirectory

	Participants service.ParticipantService
	Moderation   service.ModerationService
	Messages     service.MessageService
	Auth         service.AuthService
}

// OpenStore opens the backend selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store.Driver {
	case "bolt":
		logger.Info("Opening bolt store", "path", cfg.Store.Path)
		return bolt.Open(cfg.Store.Path)
	case "sqlite":
		logger.Info("Opening sqlite store", "path", cfg.Store.Path)
		return sqlite.Open(cfg.Store.Path)
	case "postgres":
		logger.Info("Connecting to postgres store")
		return postgres.Open(ctx, cfg.Store.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}
}

// ExclusiveStore reports whether the driver locks its database to a single
// process. The cronjob binary cannot share such a store with a running server;
// run the jobs in-process with scheduler.enabled instead.
func ExclusiveStore(driver string) bool {
	return driver == "bolt"
}

// NewStorage builds the local pass image storage.
func NewStorage(cfg *config.Config) (*storage.LocalStorageService, error) {
	return storage.NewLocalStorageService(storage.Config{
		Type:         "local",
		Dir:          cfg.Storage.Dir,
		PublicPrefix: cfg.Storage.PublicPrefix,
		MaxFileSize:  cfg.MaxPassBytes(),
		AllowedTypes: cfg.Storage.AllowedTypes,
	})
}

// NewEmailService picks the notification provider.
func NewEmailService(cfg *config.Config) service.EmailService {
	n := cfg.Notify
	switch n.Provider {
	case "smtp":
		logger.Info("SMTP configuration", "host", n.SMTP.Host, "port", n.SMTP.Port)
		return service.NewSMTPEmailService(n.SMTP.Host, n.SMTP.Port, n.SMTP.User, n.SMTP.Password, n.From, cfg.Festival.Title)
	case "sendgrid":
		logger.Info("Using SendGrid for notifications")
		return service.NewSendGridEmailService(n.SendGridAPIKey, n.From, cfg.Festival.Title, "")
	default:
		logger.Info("Email notifications disabled")
		return service.NewNoopEmailService()
	}
}

// New opens the store and wires every service. Close the returned App's
// Store when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	images, err := NewStorage(cfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	email := NewEmailService(cfg)
	directory := service.NewOrganizerDirectory(cfg.Festival.Organizers)
	tokens := security.NewTokenManager(cfg.Admin.JWTSecret, cfg.TokenExpiry())

	return &App{
		Store:        store,
		Images:       images,
		Email:        email,
		Organizers:   directory,
		Participants: service.NewParticipantService(store.Participants(), images, email, cfg.Admin.Email, cfg.Gallery.PageSize),
		Moderation:   service.NewModerationService(store.Participants(), images),
		Messages:     service.NewMessageService(store.Messages(), directory, email, cfg.Gallery.MessagePageSize),
		Auth:         service.NewAuthService(cfg.Admin.PassphraseHash, tokens),
	}, nil
}

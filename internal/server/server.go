package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/shoemakerdr/ellie/internal/config"
	"github.com/shoemakerdr/ellie/internal/format"
	"github.com/shoemakerdr/ellie/internal/packages"
	"github.com/shoemakerdr/ellie/internal/session"
	"github.com/shoemakerdr/ellie/internal/storage"
	"github.com/shoemakerdr/ellie/internal/store"
	"github.com/shoemakerdr/ellie/internal/uploads"
)

// Server holds the shared dependencies handlers close over.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// DB is the database for the server.
	DB *gorm.DB

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Store is the revision and terms store.
	Store *store.Store

	// Storage is the object storage backend.
	Storage storage.ObjectStore

	// Uploads authorizes revision uploads.
	Uploads *uploads.Authorizer

	// Catalog resolves and searches installable packages.
	Catalog *packages.Catalog

	// Sessions issues and verifies session cookies.
	Sessions *session.Manager

	// Formatter formats Elm source.
	Formatter *format.Formatter
}

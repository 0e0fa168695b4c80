package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/shoemakerdr/ellie/internal/api"
	"github.com/shoemakerdr/ellie/internal/cmd/base"
	"github.com/shoemakerdr/ellie/internal/config"
	"github.com/shoemakerdr/ellie/internal/format"
	"github.com/shoemakerdr/ellie/internal/packages"
	"github.com/shoemakerdr/ellie/internal/server"
	"github.com/shoemakerdr/ellie/internal/session"
	"github.com/shoemakerdr/ellie/internal/storage"
	"github.com/shoemakerdr/ellie/internal/store"
	"github.com/shoemakerdr/ellie/internal/uploads"
	"github.com/shoemakerdr/ellie/pkg/database"
	"github.com/shoemakerdr/ellie/pkg/models"
)

type Command struct {
	*base.Command

	flagConfig  string
	flagBrowser bool
}

func (c *Command) Synopsis() string {
	return "Run the server"
}

func (c *Command) Help() string {
	return `Usage: ellie serve -config=config.hcl

  Run the Ellie server: the editor and embed pages, the project API, and
  the package catalog, backed by the configured database and object
  storage.

` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("serve", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "config.hcl",
		"Path to the configuration file",
	)
	f.BoolVar(
		&c.flagBrowser, "browser", false,
		"Automatically open the server in a browser once it is ready",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	log := c.Log
	log.SetLevel(hclog.LevelFromString(cfg.LogLevel))

	ctx := context.Background()

	db, err := database.Connect(cfg.Database.ToDatabaseConfig(), log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}
	if err := db.AutoMigrate(models.ModelsToAutoMigrate()...); err != nil {
		c.UI.Error(fmt.Sprintf("error migrating database: %v", err))
		return 1
	}

	storageClient, err := storage.NewClient(ctx, cfg.Storage, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing object storage: %v", err))
		return 1
	}

	revisionStore := store.New(db, log)

	catalog, err := packages.NewCatalog(db, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing package catalog: %v", err))
		return 1
	}
	if cfg.Packages.SeedFile != "" {
		if err := catalog.Seed(ctx, afero.NewOsFs(), cfg.Packages.SeedFile); err != nil {
			c.UI.Error(fmt.Sprintf("error seeding package catalog: %v", err))
			return 1
		}
	}

	sessions, err := session.NewManager(*cfg.Session, cfg.SecureCookies(), log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing sessions: %v", err))
		return 1
	}

	srv := server.Server{
		Config:   cfg,
		DB:       db,
		Logger:   log,
		Store:    revisionStore,
		Storage:  storageClient,
		Uploads:  uploads.New(revisionStore, storageClient, log),
		Catalog:  catalog,
		Sessions: sessions,
		Formatter: format.NewFormatter(
			cfg.Formatter.Binary,
			time.Duration(cfg.Formatter.TimeoutSeconds)*time.Second,
			log,
		),
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverURL := "http://" + cfg.ListenAddr
	if c.flagBrowser {
		go func() {
			if err := waitForServer(serverURL, 10*time.Second); err != nil {
				c.UI.Warn(fmt.Sprintf(
					"server not ready, skipping browser launch: %v", err))
				return
			}
			if err := openBrowser(serverURL); err != nil {
				c.UI.Warn(fmt.Sprintf("could not open browser: %v", err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			"addr", cfg.ListenAddr,
			"base_url", cfg.BaseURL,
		)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.UI.Error(fmt.Sprintf("server error: %v", err))
			return 1
		}
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			c.UI.Error(fmt.Sprintf("error during shutdown: %v", err))
			return 1
		}
	}

	return 0
}

// Package config loads and validates the HCL configuration file.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/shoemakerdr/ellie/internal/session"
	"github.com/shoemakerdr/ellie/internal/storage"
	"github.com/shoemakerdr/ellie/pkg/database"
	"github.com/shoemakerdr/ellie/pkg/semver"
)

// Config is the application configuration.
type Config struct {
	// BaseURL is the public URL the application is served from. Embed
	// markup and page links are built against it.
	BaseURL string `hcl:"base_url,optional"`

	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string `hcl:"listen_addr,optional"`

	// LatestTermsVersion is the terms-of-service version users must have
	// accepted before workspace writes are allowed.
	LatestTermsVersion int `hcl:"latest_terms_version,optional"`

	// DefaultElmVersion is the runtime version offered to new projects.
	DefaultElmVersion string `hcl:"default_elm_version,optional"`

	// LogLevel sets the minimum log level (trace, debug, info, warn,
	// error).
	LogLevel string `hcl:"log_level,optional"`

	Database  *Database       `hcl:"database,block"`
	Storage   *storage.Config `hcl:"storage,block"`
	Packages  *Packages       `hcl:"packages,block"`
	Session   *session.Config `hcl:"session,block"`
	Formatter *Formatter      `hcl:"formatter,block"`
}

// Database is the database block of the configuration file.
type Database struct {
	Driver string `hcl:"driver,optional"`

	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`

	Path string `hcl:"path,optional"`

	MaxIdleConns       int `hcl:"max_idle_conns,optional"`
	MaxOpenConns       int `hcl:"max_open_conns,optional"`
	ConnMaxLifetimeSec int `hcl:"conn_max_lifetime_seconds,optional"`
	ConnMaxIdleTimeSec int `hcl:"conn_max_idle_time_seconds,optional"`
}

// ToDatabaseConfig converts the block into the connection config the
// database package consumes.
func (d *Database) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:          d.Driver,
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		DBName:          d.DBName,
		SSLMode:         d.SSLMode,
		Path:            d.Path,
		MaxIdleConns:    d.MaxIdleConns,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: time.Duration(d.ConnMaxLifetimeSec) * time.Second,
		ConnMaxIdleTime: time.Duration(d.ConnMaxIdleTimeSec) * time.Second,
	}
}

// Packages is the package catalog block of the configuration file.
type Packages struct {
	// SeedFile is a YAML catalog loaded at startup. Optional; without it
	// the catalog serves whatever the database already holds.
	SeedFile string `hcl:"seed_file,optional"`
}

// Formatter is the source formatter block of the configuration file.
type Formatter struct {
	// Binary is the elm-format executable to invoke. Looked up on PATH
	// when not absolute.
	Binary string `hcl:"binary,optional"`

	// TimeoutSeconds bounds a single format invocation.
	TimeoutSeconds int `hcl:"timeout_seconds,optional"`
}

// NewConfig parses the configuration file at the given path.
func NewConfig(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetDefaults fills in defaults for everything the file left out. A
// missing database block means embedded SQLite; a missing storage block is
// left nil and rejected by Validate since uploads cannot work without it.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:8000"
	}
	if c.LatestTermsVersion == 0 {
		c.LatestTermsVersion = 1
	}
	if c.DefaultElmVersion == "" {
		c.DefaultElmVersion = "0.18.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Database == nil {
		c.Database = &Database{Driver: "sqlite", Path: "ellie.db"}
	}
	if c.Packages == nil {
		c.Packages = &Packages{}
	}
	if c.Session == nil {
		c.Session = &session.Config{}
	}
	c.Session.SetDefaults()
	if c.Formatter == nil {
		c.Formatter = &Formatter{}
	}
	if c.Formatter.Binary == "" {
		c.Formatter.Binary = "elm-format"
	}
	if c.Formatter.TimeoutSeconds == 0 {
		c.Formatter.TimeoutSeconds = 10
	}
	if c.Storage != nil {
		c.Storage.SetDefaults()
	}
}

// Validate collects every configuration problem rather than stopping at
// the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	if u, err := url.Parse(c.BaseURL); err != nil {
		result = multierror.Append(result,
			fmt.Errorf("base_url is not a valid URL: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		result = multierror.Append(result,
			fmt.Errorf("base_url must be an http or https URL, got %q",
				c.BaseURL))
	}

	if c.LatestTermsVersion < 1 {
		result = multierror.Append(result,
			fmt.Errorf("latest_terms_version must be at least 1"))
	}

	if _, err := semver.Parse(c.DefaultElmVersion); err != nil {
		result = multierror.Append(result,
			fmt.Errorf("default_elm_version: %w", err))
	}

	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result,
			fmt.Errorf("unknown log_level %q", c.LogLevel))
	}

	if c.Storage == nil {
		result = multierror.Append(result,
			fmt.Errorf("a storage block is required"))
	} else if err := c.Storage.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("storage: %w", err))
	}

	if err := c.Session.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("session: %w", err))
	}

	if c.Formatter.TimeoutSeconds < 0 {
		result = multierror.Append(result,
			fmt.Errorf("formatter timeout_seconds cannot be negative"))
	}

	return result.ErrorOrNil()
}

// BaseURLWithoutSlash returns the base URL with any trailing slash
// removed, for safe path joining.
func (c *Config) BaseURLWithoutSlash() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// SecureCookies reports whether the service is reached over HTTPS, which
// governs the Secure attribute on session cookies.
func (c *Config) SecureCookies() bool {
	u, err := url.Parse(c.BaseURL)
	return err == nil && u.Scheme == "https"
}

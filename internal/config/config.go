// Package config provides configuration management for go-shelflist.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Record source kinds
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"

	// Default web settings
	DefaultWebPort      = 11980
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultShutdownWait = 10 * time.Second
)

// MainConfig holds the main configuration for go-shelflist
type MainConfig struct {
	// Web interface settings
	Web WebConfig `json:"web"`

	// Record source settings
	Records RecordsConfig `json:"records"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort   int           `json:"listen_port"`
	SSL          bool          `json:"ssl"`
	CertFile     string        `json:"cert_file,omitempty"`
	KeyFile      string        `json:"key_file,omitempty"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`

	// Dev enables the development run mode: gin debug output, templates
	// re-parsed from TemplateDir on every request and the pprof web listener.
	Dev         bool   `json:"dev"`
	TemplateDir string `json:"template_dir"`
	PprofAddr   string `json:"pprof_addr"`
}

// RecordsConfig describes where records are read from
type RecordsConfig struct {
	Source     string `json:"source"`      // "csv" or "sqlite"
	CSVPath    string `json:"csv_path"`    // CSV file read on every request
	Charset    string `json:"charset"`     // charset of the CSV file
	SQLitePath string `json:"sqlite_path"` // database written by import-csv
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort:   DefaultWebPort,
			SSL:          false,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			TemplateDir:  "internal/web/templates",
			PprofAddr:    "127.0.0.1:51111",
		},
		Records: RecordsConfig{
			Source:     SourceCSV,
			CSVPath:    "data/records.csv",
			Charset:    "utf-8",
			SQLitePath: "data/records.sq3",
		},
	}
	log.Printf("MainConfig initialized (source: %s)", maincfg.Records.Source)
	return maincfg
}

// Validate checks the merged configuration before the server starts
func (c *MainConfig) Validate() error {
	if c.Web.ListenPort < 1024 || c.Web.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1024 and 65535)", c.Web.ListenPort)
	}
	if c.Web.SSL && (c.Web.CertFile == "" || c.Web.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified")
	}
	switch c.Records.Source {
	case SourceCSV:
		if c.Records.CSVPath == "" {
			return errors.New("csv source selected but no csv path given")
		}
	case SourceSQLite:
		if c.Records.SQLitePath == "" {
			return errors.New("sqlite source selected but no sqlite path given")
		}
	default:
		return fmt.Errorf("unknown record source %q (want %q or %q)", c.Records.Source, SourceCSV, SourceSQLite)
	}
	return nil
}

// Web server for go-shelflist: lists CSV records and shows one page per call number
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-shelflist/internal/config"
	"github.com/go-while/go-shelflist/internal/database"
	"github.com/go-while/go-shelflist/internal/records"
	"github.com/go-while/go-shelflist/internal/web"
)

var (
	// command-line flags
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	csvPath     string
	charset     string
	sourceKind  string
	sqlitePath  string
	devMode     bool
	templateDir string
	pprofAddr   string
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (default: 11980)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&csvPath, "csv", "", "CSV file with a header row, read on every request (default: data/records.csv)")
	flag.StringVar(&charset, "charset", "", "charset of the CSV file, e.g. utf-8, latin1, windows-1252 (default: utf-8)")
	flag.StringVar(&sourceKind, "source", "", "record source: csv or sqlite (default: csv)")
	flag.StringVar(&sqlitePath, "sqlite", "", "SQLite file written by import-csv, used with -source sqlite (default: data/records.sq3)")
	flag.BoolVar(&devMode, "dev", false, "Development mode: debug output, templates read from disk, pprof listener")
	flag.StringVar(&templateDir, "templates", "", "template directory used in -dev mode (default: internal/web/templates)")
	flag.StringVar(&pprofAddr, "pprof", "", "pprof listen address in -dev mode (default: 127.0.0.1:51111)")
	flag.Parse()

	mainConfig := config.NewDefaultConfig()
	log.Printf("Starting go-shelflist web server (version: %s)", appVersion)

	webConfig := &mainConfig.Web
	recConfig := &mainConfig.Records

	// Override config with command-line flags if provided
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
	}
	if devMode {
		webConfig.Dev = true
	}
	if templateDir != "" {
		webConfig.TemplateDir = templateDir
	}
	if pprofAddr != "" {
		webConfig.PprofAddr = pprofAddr
	}
	if csvPath != "" {
		recConfig.CSVPath = csvPath
	}
	if charset != "" {
		recConfig.Charset = charset
	}
	if sourceKind != "" {
		recConfig.Source = sourceKind
	}
	if sqlitePath != "" {
		recConfig.SQLitePath = sqlitePath
	}

	if err := mainConfig.Validate(); err != nil {
		log.Fatalf("[WEB]: Invalid configuration: %v", err)
	}
	log.Printf("[WEB]: Using WEB configuration: %#v", *webConfig)
	log.Printf("[WEB]: Using RECORDS configuration: %#v", *recConfig)

	if webConfig.Dev {
		profiler := prof.NewProf()
		go profiler.PprofWeb(webConfig.PprofAddr)
		profiler.StartMemProfile(5*time.Minute, 30*time.Second)
		log.Printf("[WEB]: Dev mode: pprof listening on %s", webConfig.PprofAddr)
	}

	src, closeSource, err := openSource(context.Background(), recConfig)
	if err != nil {
		log.Fatalf("[WEB]: Failed to open record source: %v", err)
	}

	server, err := web.NewServer(src, webConfig)
	if err != nil {
		log.Printf("[WEB]: Failed to create web server: %v", err)
		closeSource()
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start web server in goroutine to make it non-blocking
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Printf("[WEB]: Failed to start web server: %v", err)
		closeSource()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownWait)
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[WEB]: Error during shutdown: %v", err)
	}
	cancel()
	closeSource()
	log.Printf("[WEB]: Graceful shutdown completed")
}

// openSource builds the configured record source and a func releasing it
func openSource(ctx context.Context, cfg *config.RecordsConfig) (records.Source, func(), error) {
	switch cfg.Source {
	case config.SourceSQLite:
		rdb, err := database.OpenRecordsDBReadOnly(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		info, err := rdb.LastImport(ctx)
		switch {
		case err != nil:
			rdb.Close()
			return nil, nil, fmt.Errorf("%s is not a record store: %w", cfg.SQLitePath, err)
		case info == nil:
			log.Printf("[RECORDS]: Warning: %s holds no import yet, run import-csv first", rdb)
		default:
			log.Printf("[RECORDS]: Serving %s, import #%d from %s (%d rows, %s)",
				rdb, info.ID, info.Source, info.Rows, info.ImportedAt.Format(time.RFC3339))
		}
		return rdb, func() { rdb.Close() }, nil
	default:
		src := records.NewCSVSource(cfg.CSVPath, cfg.Charset)
		if _, err := os.Stat(cfg.CSVPath); err != nil {
			// not fatal: the file is read per request and may appear later
			log.Printf("[RECORDS]: Warning: %s not readable yet: %v", cfg.CSVPath, err)
		}
		log.Printf("[RECORDS]: Serving %s (charset %s)", src, cfg.Charset)
		return src, func() {}, nil
	}
}

// Command import-csv copies a CSV record file into the SQLite store served with -source sqlite
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-while/go-shelflist/internal/config"
	"github.com/go-while/go-shelflist/internal/database"
	"github.com/go-while/go-shelflist/internal/records"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	defaults := config.NewDefaultConfig().Records

	var (
		csvPath    = flag.String("csv", defaults.CSVPath, "CSV file to import (first row is the header)")
		charset    = flag.String("charset", defaults.Charset, "charset of the CSV file")
		sqlitePath = flag.String("sqlite", defaults.SQLitePath, "SQLite database to write")
	)
	flag.Parse()

	if *csvPath == "" || *sqlitePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -csv <file> -sqlite <file> [-charset <name>]\n", os.Args[0])
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *csvPath, *charset, *sqlitePath); err != nil {
		log.Fatalf("[IMPORT]: %v", err)
	}
}

func run(ctx context.Context, csvPath, charset, sqlitePath string) error {
	start := time.Now()
	log.Printf("[IMPORT]: Reading %s (charset %s)", csvPath, charset)

	col, err := records.NewCSVSource(csvPath, charset).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load csv: %w", err)
	}

	rdb, err := database.OpenRecordsDB(ctx, sqlitePath)
	if err != nil {
		return err
	}
	defer rdb.Close()

	if err := rdb.Import(ctx, csvPath, col); err != nil {
		return fmt.Errorf("failed to import into %s: %w", sqlitePath, err)
	}

	log.Printf("[IMPORT]: Imported %d records with %d columns into %s in %v",
		col.Len(), len(col.Header), sqlitePath, time.Since(start).Round(time.Millisecond))
	return nil
}

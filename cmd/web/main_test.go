package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-while/go-shelflist/internal/config"
	"github.com/go-while/go-shelflist/internal/database"
	"github.com/go-while/go-shelflist/internal/records"
)

func sqliteConfig(path string) *config.RecordsConfig {
	cfg := config.NewDefaultConfig().Records
	cfg.Source = config.SourceSQLite
	cfg.SQLitePath = path
	return &cfg
}

func TestOpenSource_SQLiteWithImport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.sq3")

	rdb, err := database.OpenRecordsDB(ctx, path)
	require.NoError(t, err)
	col, err := records.ParseCSV(ctx, strings.NewReader("callNumber,location\nA1,Main St\n"), "utf-8")
	require.NoError(t, err)
	require.NoError(t, rdb.Import(ctx, "records.csv", col))
	require.NoError(t, rdb.Close())

	src, closeSource, err := openSource(ctx, sqliteConfig(path))
	require.NoError(t, err)
	defer closeSource()

	got, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, "A1", got.Records[0].CallNumber())
}

func TestOpenSource_SQLiteEmptyStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.sq3")

	rdb, err := database.OpenRecordsDB(ctx, path)
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	src, closeSource, err := openSource(ctx, sqliteConfig(path))
	require.NoError(t, err)
	defer closeSource()

	got, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestOpenSource_SQLiteErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, _, err := openSource(ctx, sqliteConfig(filepath.Join(dir, "missing.sq3")))
	assert.ErrorIs(t, err, records.ErrSourceUnavailable)

	garbage := filepath.Join(dir, "garbage.sq3")
	require.NoError(t, os.WriteFile(garbage, []byte("callNumber,location\nA1,Main St\n"), 0644))
	_, _, err = openSource(ctx, sqliteConfig(garbage))
	assert.Error(t, err)
}

func TestOpenSource_CSV(t *testing.T) {
	cfg := config.NewDefaultConfig().Records
	cfg.CSVPath = filepath.Join(t.TempDir(), "later.csv")

	src, closeSource, err := openSource(context.Background(), &cfg)
	require.NoError(t, err)
	defer closeSource()
	assert.IsType(t, &records.CSVSource{}, src)
}

// Package records loads the record table the web pages are rendered from
package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-while/go-shelflist/internal/models"
)

var (
	// ErrSourceUnavailable is returned when the source cannot be opened or read
	ErrSourceUnavailable = errors.New("record source unavailable")
	// ErrMalformedSource is returned when the source does not parse as a table
	ErrMalformedSource = errors.New("record source malformed")
	// ErrRecordNotFound is returned when no record has the requested callNumber
	ErrRecordNotFound = errors.New("record not found")
)

// Source produces a fresh collection on every call
type Source interface {
	Load(ctx context.Context) (*models.Collection, error)
}

// CSVSource reads records from a CSV file whose first row names the fields
type CSVSource struct {
	Path    string
	Charset string
}

// NewCSVSource creates a CSV backed source
func NewCSVSource(path, charset string) *CSVSource {
	return &CSVSource{Path: path, Charset: charset}
}

// Load opens the file and parses every row. Nothing is cached.
func (s *CSVSource) Load(ctx context.Context) (*models.Collection, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrSourceUnavailable, s.Path, err)
	}
	defer file.Close()

	return ParseCSV(ctx, file, s.Charset)
}

// String identifies the source in log lines
func (s *CSVSource) String() string {
	return "csv:" + s.Path
}

// ParseCSV reads a header row followed by data rows from r.
// Rows with a column count different from the header are a parse error.
func ParseCSV(ctx context.Context, r io.Reader, charset string) (*models.Collection, error) {
	decoded, err := models.NewCharsetReader(r, charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	csvReader := csv.NewReader(decoded)
	csvReader.FieldsPerRecord = 0 // first row fixes the column count

	col := &models.Collection{}

	header, err := csvReader.Read()
	if err == io.EOF {
		return col, nil
	}
	if err != nil {
		return nil, readError("read header", err)
	}
	col.Header = header

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError("read record", err)
		}
		col.Records = append(col.Records, models.NewRecord(header, row))
	}

	return col, nil
}

// readError classifies an encoding/csv error: parse errors are malformed
// input, everything else is an I/O failure.
func readError(op string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %w", ErrMalformedSource, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, op, err)
}

// FindByCallNumber loads the collection and returns the first record whose
// callNumber equals id. A miss returns ErrRecordNotFound.
func FindByCallNumber(ctx context.Context, src Source, id string) (*models.Record, error) {
	col, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	rec := col.FindByCallNumber(id)
	if rec == nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrRecordNotFound, models.CallNumberField, id)
	}
	return rec, nil
}

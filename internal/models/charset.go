package models

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewCharsetReader wraps r so that it yields UTF-8 text.
// Uses golang.org/x/text/encoding/htmlindex for extended charset support.
// A leading UTF-8 byte order mark is removed for utf-8 input.
func NewCharsetReader(r io.Reader, charset string) (io.Reader, error) {
	charset = NormalizeCharsetName(charset)

	if charset == "" || charset == "utf-8" {
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// NormalizeCharsetName normalizes charset names to match htmlindex expectations
func NormalizeCharsetName(charset string) string {
	normalized := strings.ToLower(strings.TrimSpace(charset))

	switch normalized {
	case "iso-8859-15", "iso8859-15", "iso_8859-15", "latin-9", "latin9":
		return "iso-8859-15"
	case "iso-8859-1", "iso8859-1", "iso_8859-1", "latin-1", "latin1":
		return "iso-8859-1"
	case "iso-8859-2", "iso8859-2", "iso_8859-2", "latin-2", "latin2":
		return "iso-8859-2"
	case "windows-1252", "cp1252", "win1252":
		return "windows-1252"
	case "windows-1251", "cp1251", "win1251":
		return "windows-1251"
	case "windows-1250", "cp1250", "win1250":
		return "windows-1250"
	case "utf-8", "utf8":
		return "utf-8"
	case "us-ascii", "ascii":
		return "windows-1252" // superset of ASCII
	default:
		return normalized
	}
}

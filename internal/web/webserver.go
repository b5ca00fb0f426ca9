// Package web provides the HTTP server and HTML pages for go-shelflist
package web

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-shelflist/internal/config"
	"github.com/go-while/go-shelflist/internal/models"
	"github.com/go-while/go-shelflist/internal/records"
)

// WebServer serves the record pages. It holds no record data: every
// request loads a fresh collection from Records.
type WebServer struct {
	Records       records.Source
	Router        *gin.Engine
	Config        *config.WebConfig
	templates     map[string]*template.Template // nil in dev mode
	staticHandler gin.HandlerFunc
	httpServer    *http.Server
}

// TemplateData represents common template data
type TemplateData struct {
	Title      string
	AppVersion string
	Source     string
}

// IndexPageData represents data for the record listing
type IndexPageData struct {
	TemplateData
	Header      []string // one entry per rendered column
	Records     []*models.Record
	RecordCount int
}

// DetailPageData represents data for a single record page
type DetailPageData struct {
	TemplateData
	Record *models.Record
}

// ErrorPageData represents data for error pages
type ErrorPageData struct {
	TemplateData
	Error      string
	Detail     string
	StatusCode int
}

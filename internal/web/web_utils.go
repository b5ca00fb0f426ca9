package web

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-shelflist/internal/config"
	"github.com/go-while/go-shelflist/internal/records"
)

// getBaseTemplateData creates a TemplateData struct with common information
func (s *WebServer) getBaseTemplateData(title string) TemplateData {
	return TemplateData{
		Title:      title,
		AppVersion: config.AppVersion,
		Source:     sourceName(s.Records),
	}
}

func sourceName(src records.Source) string {
	if str, ok := src.(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprintf("%T", src)
}

// statusForError maps loader errors to HTTP status codes
func statusForError(err error) int {
	if errors.Is(err, records.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// renderTemplate executes a page through the base layout.
// The page is rendered into a buffer first so a template failure
// can still produce a clean error page.
func (s *WebServer) renderTemplate(c *gin.Context, statusCode int, templateName string, data interface{}) {
	tmpl, err := s.lookupTemplate(templateName)
	if err != nil {
		log.Printf("[WEB]: Error loading template %s: %v", templateName, err)
		if templateName != "error" {
			s.renderError(c, http.StatusInternalServerError, "Template error", "", err.Error())
		} else {
			c.String(http.StatusInternalServerError, "Error: template error")
		}
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Printf("[WEB]: Error rendering template %s: %v", templateName, err)
		if templateName != "error" {
			s.renderError(c, http.StatusInternalServerError, "Template error", "", err.Error())
		} else {
			c.String(http.StatusInternalServerError, "Error: template error")
		}
		return
	}

	c.Data(statusCode, "text/html; charset=utf-8", buf.Bytes())
}

// renderError renders an error page. detail is shown to the client,
// errstring only goes to the log.
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, detail string, errstring string) {
	log.Printf("[WEB]: Error %d: %s - %s", statusCode, message, errstring)

	data := ErrorPageData{
		TemplateData: s.getBaseTemplateData("Error"),
		Error:        message,
		Detail:       detail,
		StatusCode:   statusCode,
	}
	s.renderTemplate(c, statusCode, "error", data)
}

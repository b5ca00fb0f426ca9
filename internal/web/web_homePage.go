package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// indexPage lists every record of the source ("/")
func (s *WebServer) indexPage(c *gin.Context) {
	col, err := s.Records.Load(c.Request.Context())
	if err != nil {
		s.renderError(c, statusForError(err), "Records unavailable", "", err.Error())
		return
	}

	data := IndexPageData{
		TemplateData: s.getBaseTemplateData("Records"),
		Header:       col.FieldNames(),
		Records:      col.Records,
		RecordCount:  col.Len(),
	}
	s.renderTemplate(c, http.StatusOK, "index", data)
}

package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-shelflist/internal/records"
)

// detailPage shows the first record whose callNumber matches the path ("/:callNumber/").
// A miss is a 404, not an empty response.
func (s *WebServer) detailPage(c *gin.Context) {
	callNumber := c.Param("callNumber")

	rec, err := records.FindByCallNumber(c.Request.Context(), s.Records, callNumber)
	if err != nil {
		if errors.Is(err, records.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, "Record Not Found", "No record with call number "+callNumber+".", err.Error())
			return
		}
		s.renderError(c, statusForError(err), "Records unavailable", "", err.Error())
		return
	}

	data := DetailPageData{
		TemplateData: s.getBaseTemplateData(rec.CallNumber()),
		Record:       rec,
	}
	s.renderTemplate(c, http.StatusOK, "detail", data)
}

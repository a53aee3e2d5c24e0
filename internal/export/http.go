package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Respond renders the table as a file download named after prefix.
// The table is rendered before any header is written so a failure can still become an error response.
func Respond(c *gin.Context, t *Table, format, prefix string) error {
	var buf bytes.Buffer
	if err := t.Write(&buf, format); err != nil {
		return err
	}

	filename := Filename(prefix, format, time.Now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, ContentType(format), buf.Bytes())
	return nil
}

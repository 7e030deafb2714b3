package report

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Exporter renders the records of one entity that fall in a range.
type Exporter interface {
	Export(ctx context.Context, r Range, f Format) ([]byte, string, error)
}

// ExportHandler serves the download and archive endpoints of one export.
// Embed it in an admin handler to get Export and Archive routes.
type ExportHandler struct {
	exporter Exporter
	archiver Archiver
	now      func() time.Time
	noun     string
}

// NewExportHandler takes a nil archiver when the export archive is disabled.
// noun names the records in error messages, e.g. "orders".
func NewExportHandler(exporter Exporter, archiver Archiver, now func() time.Time, noun string) *ExportHandler {
	return &ExportHandler{exporter: exporter, archiver: archiver, now: now, noun: noun}
}

// ParseRequest resolves the start, end and format query values of an
// export. Empty dates default to the last seven days.
func ParseRequest(start, end, format string, today time.Time) (Range, Format, error) {
	r, err := ResolveRange(start, end, today)
	if err != nil {
		return Range{}, "", err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return Range{}, "", err
	}
	return r, f, nil
}

// IsInputError reports whether err came from bad admin input rather than
// the store.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidRange) || errors.Is(err, ErrInvalidFormat)
}

// --------------------------------------------------
// ADMIN: Download export
// --------------------------------------------------
func (h *ExportHandler) Export(c *gin.Context) {
	body, filename, format, ok := h.render(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), body)
}

// --------------------------------------------------
// ADMIN: Upload export to the archive bucket
// --------------------------------------------------
func (h *ExportHandler) Archive(c *gin.Context) {
	body, filename, format, ok := h.render(c)
	if !ok {
		return
	}

	url, err := Archive(c.Request.Context(), h.archiver, filename, body, format)
	if err != nil {
		if errors.Is(err, ErrArchiveDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[EXPORT] archive upload failed for %s: %v", filename, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to archive export"})
		return
	}

	log.Printf("[EXPORT] archived %s -> %s", filename, url)
	c.JSON(http.StatusCreated, gin.H{"file": filename, "url": url})
}

func (h *ExportHandler) render(c *gin.Context) ([]byte, string, Format, bool) {
	r, format, err := ParseRequest(c.Query("start"), c.Query("end"), c.Query("format"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", "", false
	}

	body, filename, err := h.exporter.Export(c.Request.Context(), r, format)
	if err != nil {
		if IsInputError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, "", "", false
		}
		log.Printf("[EXPORT] %s export failed: %v", h.noun, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export " + h.noun})
		return nil, "", "", false
	}

	return body, filename, format, true
}

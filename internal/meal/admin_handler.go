package meal

import (
	"log"
	"net/http"

	"mealdesk/internal/report"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the overview plus the Export and Archive routes of
// the embedded export handler.
type AdminHandler struct {
	*report.ExportHandler
	service *Service
}

// NewAdminHandler takes a nil archiver when the export archive is disabled.
func NewAdminHandler(service *Service, archiver report.Archiver) *AdminHandler {
	return &AdminHandler{
		ExportHandler: report.NewExportHandler(service, archiver, service.Policy().Now, "orders"),
		service:       service,
	}
}

// --------------------------------------------------
// ADMIN: Orders overview
// --------------------------------------------------
func (h *AdminHandler) Summary(c *gin.Context) {
	policy := h.service.Policy()

	date := c.DefaultQuery("date", policy.Today())
	if _, err := policy.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	r, err := report.ResolveRange(c.Query("start"), c.Query("end"), policy.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), date, r)
	if err != nil {
		log.Printf("[ORDERS] admin summary failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

package transport

import (
	"errors"
	"log"
	"net/http"
	"time"

	"mealdesk/internal/session"
	"mealdesk/internal/submission"

	"github.com/gin-gonic/gin"
)

const failedMessage = "Failed to submit booking. Please try again."

type Handler struct {
	service    *Service
	sessions   *session.Registry[*Session]
	resetDelay time.Duration
}

func NewHandler(service *Service, sessions *session.Registry[*Session], resetDelay time.Duration) *Handler {
	return &Handler{
		service:    service,
		sessions:   sessions,
		resetDelay: resetDelay,
	}
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"routes":          Routes,
		"shift_end_times": ShiftEndTimes,
		"genders":         Genders,
		"cutoff":          "17:00 on the booking date",
		"timezone":        h.service.Policy().Location().String(),
	})
}

// --------------------------------------------------
// Availability for a date
// --------------------------------------------------
func (h *Handler) Availability(c *gin.Context) {
	date := c.DefaultQuery("date", h.service.Policy().Today())

	window, err := h.service.Availability(date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"open":   window.Open,
		"closed": !window.Open,
		"cutoff": window.Deadline,
	})
}

// --------------------------------------------------
// Submit bookings in one request
// --------------------------------------------------
func (h *Handler) CreateBookings(c *gin.Context) {
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, bookings := h.service.Submit(c.Request.Context(), form)
	switch res.Kind {
	case submission.KindRejected:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": res.Errors})
	case submission.KindFailed:
		c.JSON(http.StatusBadGateway, gin.H{"error": failedMessage})
	default:
		c.JSON(http.StatusCreated, gin.H{"bookings": bookings})
	}
}

// --------------------------------------------------
// Form sessions
// --------------------------------------------------
func (h *Handler) CreateSession(c *gin.Context) {
	s := NewSession(h.service, h.resetDelay)
	id := h.sessions.Add(s)

	c.JSON(http.StatusCreated, s.View(id))
}

func (h *Handler) GetSession(c *gin.Context) {
	id := c.Param("id")
	s, ok := h.lookup(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.View(id))
}

func (h *Handler) ApplyAction(c *gin.Context) {
	id := c.Param("id")
	s, ok := h.lookup(c, id)
	if !ok {
		return
	}

	var action Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.Apply(action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.View(id))
}

func (h *Handler) SubmitSession(c *gin.Context) {
	id := c.Param("id")
	s, ok := h.lookup(c, id)
	if !ok {
		return
	}

	res, err := s.Submit(c.Request.Context())
	if err != nil {
		if errors.Is(err, submission.ErrBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": "submission already in progress"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": session.ErrNotFound.Error()})
		return
	}

	status := http.StatusCreated
	switch res.Kind {
	case submission.KindRejected:
		status = http.StatusUnprocessableEntity
	case submission.KindFailed:
		status = http.StatusBadGateway
	}

	view := s.View(id)
	if res.Kind == submission.KindFailed {
		c.JSON(status, gin.H{"error": failedMessage, "session": view})
		return
	}
	c.JSON(status, view)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) lookup(c *gin.Context, id string) (*Session, bool) {
	s, err := h.sessions.Get(id)
	if err != nil {
		log.Printf("[TRANSPORT] unknown session %s", id)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return s, true
}

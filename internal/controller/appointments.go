package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/model"
	"github.com/lyceetalmest/rdv-backend/internal/service"
)

// Controller holds the services behind the HTTP surface.
type Controller struct {
	appointments *service.AppointmentService
	availability *service.AvailabilityService
	timeSlots    *service.TimeSlotService
	closedDays   *service.ClosedDayService
	stats        *service.StatsService
	logger       *zap.Logger
}

func New(
	appointments *service.AppointmentService,
	availability *service.AvailabilityService,
	timeSlots *service.TimeSlotService,
	closedDays *service.ClosedDayService,
	stats *service.StatsService,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		appointments: appointments,
		availability: availability,
		timeSlots:    timeSlots,
		closedDays:   closedDays,
		stats:        stats,
		logger:       logger,
	}
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		failMessage(c, http.StatusBadRequest, "ID invalide")
		return 0, false
	}
	return id, true
}

// GET /api/appointments/available-dates
func (ctl *Controller) GetAvailableDates(c *gin.Context) {
	dates, err := ctl.availability.AvailableDates(c.Request.Context())
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"dates": dates})
}

// GET /api/appointments/available-slots/:date
func (ctl *Controller) GetAvailableSlots(c *gin.Context) {
	date := c.Param("date")

	slots, err := ctl.availability.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"date": date, "slots": slots})
}

// POST /api/appointments
func (ctl *Controller) CreateAppointment(c *gin.Context) {
	var payload model.Appointment
	if err := c.ShouldBindJSON(&payload); err != nil {
		failMessage(c, http.StatusBadRequest, "Corps de requête invalide")
		return
	}

	created, err := ctl.appointments.Create(c.Request.Context(), &payload)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message":     "Rendez-vous créé avec succès",
		"appointment": created,
	})
}

// GET /api/appointments/:id
func (ctl *Controller) GetAppointment(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	appointment, err := ctl.appointments.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"appointment": appointment})
}

// GET /api/appointments/verify/:id
// Same record as GetAppointment plus the display fields the confirmation
// page renders.
func (ctl *Controller) VerifyAppointment(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	appointment, err := ctl.appointments.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"appointment": appointment.View()})
}

// PUT /api/appointments/:id/cancel
func (ctl *Controller) CancelAppointment(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	// An empty body is fine: the reason is optional.
	_ = c.ShouldBindJSON(&payload)

	cancelled, err := ctl.appointments.Cancel(c.Request.Context(), id, payload.Reason)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message":     "Rendez-vous annulé avec succès",
		"appointment": cancelled,
	})
}

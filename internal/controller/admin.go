package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lyceetalmest/rdv-backend/internal/model"
	"github.com/lyceetalmest/rdv-backend/internal/service"
)

// GET /api/admin/appointments?page&limit&date&statut&search
func (ctl *Controller) AdminListAppointments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := model.AppointmentFilter{
		Date:   c.Query("date"),
		Status: c.Query("statut"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	appointments, total, err := ctl.appointments.Find(c.Request.Context(), filter)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	views := make([]model.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		views = append(views, a.View())
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	ok(c, http.StatusOK, gin.H{
		"appointments": views,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// PUT /api/admin/appointments/:id
func (ctl *Controller) AdminUpdateAppointment(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	var payload service.UpdateInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		failMessage(c, http.StatusBadRequest, "Corps de requête invalide")
		return
	}

	updated, err := ctl.appointments.Update(c.Request.Context(), id, payload)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message":     "Rendez-vous mis à jour avec succès",
		"appointment": updated,
	})
}

// DELETE /api/admin/appointments/:id
func (ctl *Controller) AdminDeleteAppointment(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	deleted, err := ctl.appointments.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Rendez-vous de %s %s supprimé avec succès", deleted.FirstName, deleted.LastName),
	})
}

// PUT /api/admin/appointments/:id/confirm
func (ctl *Controller) AdminConfirmAppointment(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	var payload struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&payload)

	confirmed, err := ctl.appointments.Confirm(c.Request.Context(), id, payload.Note)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message":     "Rendez-vous confirmé avec succès",
		"appointment": confirmed,
	})
}

// PUT /api/admin/appointments/:id/reschedule
func (ctl *Controller) AdminRescheduleAppointment(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	var payload struct {
		Date   string `json:"date_rdv"`
		Time   string `json:"heure_rdv"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		failMessage(c, http.StatusBadRequest, "Corps de requête invalide")
		return
	}

	rescheduled, err := ctl.appointments.Reschedule(c.Request.Context(), id, payload.Date, payload.Time, payload.Reason)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message":     "Rendez-vous reprogrammé avec succès",
		"appointment": rescheduled,
	})
}

// GET /api/admin/statistics
func (ctl *Controller) AdminStatistics(c *gin.Context) {
	stats, err := ctl.stats.Statistics(c.Request.Context())
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"statistics": stats})
}

// GET /api/admin/appointments/export/:date
func (ctl *Controller) AdminExportByDate(c *gin.Context) {
	date := c.Param("date")

	appointments, err := ctl.appointments.ListByDate(c.Request.Context(), date)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	views := make([]model.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		views = append(views, a.View())
	}

	ok(c, http.StatusOK, gin.H{
		"date":           date,
		"date_formatted": model.FormatDateFR(date),
		"appointments":   views,
		"statistics":     service.DateStats(appointments),
		"exportedAt":     model.FormatTimestampFR(time.Now()),
	})
}

// GET /api/admin/dashboard
func (ctl *Controller) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	today := time.Now().Format(model.DateLayout)

	todayAppointments, err := ctl.appointments.ListByDate(ctx, today)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	upcoming, err := ctl.appointments.ListUpcoming(ctx, 7)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	stats, err := ctl.stats.Statistics(ctx)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	todayViews := make([]model.AppointmentView, 0, len(todayAppointments))
	for _, a := range todayAppointments {
		todayViews = append(todayViews, a.View())
	}
	upcomingViews := make([]model.AppointmentView, 0, len(upcoming))
	for _, a := range upcoming {
		upcomingViews = append(upcomingViews, a.View())
	}

	ok(c, http.StatusOK, gin.H{
		"dashboard": gin.H{
			"today": gin.H{
				"date":         today,
				"appointments": todayViews,
				"count":        len(todayViews),
			},
			"upcoming":     upcomingViews,
			"statistics":   stats,
			"popularSlots": stats.PopularSlots,
			"generated_at": model.FormatTimestampFR(time.Now()),
		},
	})
}

// GET /api/admin/reports/monthly/:year/:month
func (ctl *Controller) AdminMonthlyReport(c *gin.Context) {
	year, errY := strconv.Atoi(c.Param("year"))
	month, errM := strconv.Atoi(c.Param("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 || year < 2000 {
		failMessage(c, http.StatusBadRequest, "Année et mois requis (format numérique)")
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	startDate := start.Format(model.DateLayout)
	endDate := end.Format(model.DateLayout)

	appointments, err := ctl.appointments.ListBetween(c.Request.Context(), startDate, endDate)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	views := make([]model.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		views = append(views, a.View())
	}

	ok(c, http.StatusOK, gin.H{
		"period": gin.H{
			"year":      year,
			"month":     month,
			"startDate": startDate,
			"endDate":   endDate,
			"monthName": start.Format("January 2006"),
		},
		"appointments": views,
		"statistics":   service.DateStats(appointments),
	})
}

// GET /api/admin/time-slots
func (ctl *Controller) AdminListTimeSlots(c *gin.Context) {
	slots, err := ctl.timeSlots.List(c.Request.Context())
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	views := make([]model.TimeSlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, s.View())
	}

	ok(c, http.StatusOK, gin.H{"slots": views})
}

// POST /api/admin/time-slots
func (ctl *Controller) AdminAddTimeSlot(c *gin.Context) {
	var payload struct {
		Start string `json:"heure_debut"`
		End   string `json:"heure_fin"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		failMessage(c, http.StatusBadRequest, "Corps de requête invalide")
		return
	}

	slot, err := ctl.timeSlots.Add(c.Request.Context(), payload.Start, payload.End)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message": "Créneau horaire ajouté avec succès",
		"slot":    slot.View(),
	})
}

// PUT /api/admin/time-slots/:id/toggle
func (ctl *Controller) AdminToggleTimeSlot(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	newState, err := ctl.timeSlots.Toggle(c.Request.Context(), id)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	message := "Créneau horaire désactivé avec succès"
	if newState {
		message = "Créneau horaire activé avec succès"
	}

	ok(c, http.StatusOK, gin.H{
		"message":   message,
		"newStatus": newState,
	})
}

// DELETE /api/admin/time-slots/:id
func (ctl *Controller) AdminDeleteTimeSlot(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := ctl.timeSlots.Delete(c.Request.Context(), id); err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Créneau horaire supprimé avec succès"})
}

// GET /api/admin/closed-days
func (ctl *Controller) AdminListClosedDays(c *gin.Context) {
	days, err := ctl.closedDays.List(c.Request.Context())
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	views := make([]model.ClosedDayView, 0, len(days))
	for _, d := range days {
		views = append(views, d.View())
	}

	ok(c, http.StatusOK, gin.H{"closedDays": views})
}

// POST /api/admin/closed-days
func (ctl *Controller) AdminAddClosedDay(c *gin.Context) {
	var payload struct {
		Date   string `json:"date_fermeture"`
		Reason string `json:"raison"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		failMessage(c, http.StatusBadRequest, "Corps de requête invalide")
		return
	}

	day, err := ctl.closedDays.Add(c.Request.Context(), payload.Date, payload.Reason)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"message":   "Jour de fermeture ajouté avec succès",
		"closedDay": day.View(),
	})
}

// DELETE /api/admin/closed-days/:id
func (ctl *Controller) AdminDeleteClosedDay(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := ctl.closedDays.Delete(c.Request.Context(), id); err != nil {
		fail(c, ctl.logger, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Jour de fermeture supprimé avec succès"})
}

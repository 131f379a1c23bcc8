package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/limbo/healthtrack/pkg/httputil"
)

// DashboardSummary mirrors the counters shown on the overview page:
// how many appointments are still ahead, how many medications are
// active, how many doses those schedule per day, and how many were
// already taken today.
type DashboardSummary struct {
	UpcomingAppointments int `json:"upcoming_appointments"`
	ActiveMedications    int `json:"active_medications"`
	DailyDoses           int `json:"daily_doses"`
	TakenToday           int `json:"taken_today"`
}

func (s *Server) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("dashboard summary error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	now := time.Now()
	partition, err := s.appointmentsService.Partition(ctx, uid, now)
	if err != nil {
		logger.Error("dashboard summary error: appointments", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while collecting dashboard summary", nil)
		return
	}
	meds, err := s.medicationsService.List(ctx, uid)
	if err != nil {
		logger.Error("dashboard summary error: medications", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while collecting dashboard summary", nil)
		return
	}
	logs, err := s.medicationsService.ListTodayLogs(ctx, uid, now)
	if err != nil {
		logger.Error("dashboard summary error: medication logs", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while collecting dashboard summary", nil)
		return
	}
	summary := DashboardSummary{
		UpcomingAppointments: len(partition.Upcoming),
		TakenToday:           len(logs),
	}
	for _, med := range meds {
		if med.IsActive {
			summary.ActiveMedications++
			summary.DailyDoses += len(med.TimeOfDay)
		}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, summary)
	logger.Info("dashboard summary provided")
}

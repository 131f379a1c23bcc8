package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/healthtrack/internal/error_values"
	"github.com/limbo/healthtrack/internal/service"
	"github.com/limbo/healthtrack/pkg/entity"
	"github.com/limbo/healthtrack/pkg/httputil"
)

type CreateMedicationRequest struct {
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency string   `json:"frequency"`
	TimeOfDay []string `json:"time_of_day"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Notes     string   `json:"notes"`
	IsActive  bool     `json:"is_active"`
}

type GetMedicationsResponse struct {
	UserID      string               `json:"uid"`
	Medications []*entity.Medication `json:"medications"`
}

type GetMedicationLogsResponse struct {
	UserID string                 `json:"uid"`
	Day    string                 `json:"day"`
	Logs   []entity.MedicationLog `json:"logs"`
}

type LogDoseRequest struct {
	ScheduledTime string `json:"scheduled_time"`
}

func (s *Server) GetMedications(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get medications error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	meds, err := s.medicationsService.List(ctx, uid)
	if err != nil {
		logger.Error("getting medications list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting medications list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetMedicationsResponse{
		UserID:      uid.String(),
		Medications: meds,
	})
	logger.Info("medications provided")
}

func (s *Server) CreateMedication(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create medication error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateMedicationRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create medication error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	med, err := s.medicationsService.Create(ctx, uid, &service.CreateMedicationRequest{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		TimeOfDay: req.TimeOfDay,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		IsActive:  req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create medication error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create medication: user doesn't exists", nil)
		case isValidationError(err):
			logger.Error("create medication error: validation failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medication fields", err)
		default:
			logger.Error("create medication error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating medication", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, med)
	logger.Info("medication created")
}

func (s *Server) PatchMedication(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("medication update error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("medication update error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medication id in path value", nil)
		return
	}
	var patch entity.MedicationPatch
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		logger.Error("medication update error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	med, err := s.medicationsService.Update(ctx, id, uid, &patch)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMedicationNotFound):
			logger.Error("medication update error: unexist medication")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "medication doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrEmptyTimeOfDay):
			logger.Error("medication update error: attempt to remove all dose times")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "medication must keep at least one time of day", nil)
		case errors.Is(err, errorvalues.ErrEmptyPatch):
			logger.Error("medication update error: empty patch")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "patch contains no settable fields", nil)
		case isValidationError(err):
			logger.Error("medication update error: validation failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medication fields", err)
		default:
			logger.Error("medication update error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating medication", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, med)
	logger.Info("medication updated")
}

func (s *Server) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("medication deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("medication deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medication id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	err = s.medicationsService.Delete(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMedicationNotFound):
			logger.Error("medication deletion error: unexist medication")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "medication doesn't exist", nil)
		default:
			logger.Error("medication deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting medication", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("medication deleted")
}

func (s *Server) GetTodayMedicationLogs(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get medication logs error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	now := time.Now()
	logs, err := s.medicationsService.ListTodayLogs(ctx, uid, now)
	if err != nil {
		logger.Error("getting medication logs error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting medication logs", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetMedicationLogsResponse{
		UserID: uid.String(),
		Day:    now.UTC().Format("2006-01-02"),
		Logs:   logs,
	})
	logger.Info("medication logs provided")
}

func (s *Server) LogMedicationDose(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("log dose error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("log dose error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medication id in path value", nil)
		return
	}
	var req LogDoseRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("log dose error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	medLog, err := s.medicationsService.LogDose(ctx, uid, id, req.ScheduledTime, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMedicationNotFound):
			logger.Error("log dose error: unexist medication")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "medication doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrDoseAlreadyLogged):
			logger.Error("log dose error: dose already logged today")
			httputil.WriteErrorResponse(w, http.StatusConflict, "dose already logged for this time today", nil)
		case isValidationError(err):
			logger.Error("log dose error: validation failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid scheduled time", err)
		default:
			logger.Error("log dose error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while logging dose", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, medLog)
	logger.Info("dose logged")
}

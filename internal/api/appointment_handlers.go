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

type CreateAppointmentRequest struct {
	Title      string `json:"title"`
	Date       string `json:"appointment_date"`
	Time       string `json:"appointment_time"`
	DoctorName string `json:"doctor_name"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

type GetAppointmentsResponse struct {
	UserID       string                `json:"uid"`
	Appointments []*entity.Appointment `json:"appointments"`
}

func (s *Server) GetAppointments(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get appointments error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	appts, err := s.appointmentsService.List(ctx, uid)
	if err != nil {
		logger.Error("getting appointments list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting appointments list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetAppointmentsResponse{
		UserID:       uid.String(),
		Appointments: appts,
	})
	logger.Info("appointments provided")
}

func (s *Server) GetAppointmentsPartitioned(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get partitioned appointments error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	partition, err := s.appointmentsService.Partition(ctx, uid, time.Now())
	if err != nil {
		logger.Error("partitioning appointments error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while partitioning appointments", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, partition)
	logger.Info("partitioned appointments provided")
}

func (s *Server) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create appointment error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateAppointmentRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create appointment error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	appt, err := s.appointmentsService.Create(ctx, uid, &service.CreateAppointmentRequest{
		Title:      req.Title,
		Date:       req.Date,
		Time:       req.Time,
		DoctorName: req.DoctorName,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create appointment error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create appointment: user doesn't exists", nil)
		case isValidationError(err):
			logger.Error("create appointment error: validation failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid appointment fields", err)
		default:
			logger.Error("create appointment error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating appointment", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, appt)
	logger.Info("appointment created")
}

func (s *Server) PatchAppointment(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("appointment update error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("appointment update error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid appointment id in path value", nil)
		return
	}
	var patch entity.AppointmentPatch
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		logger.Error("appointment update error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	appt, err := s.appointmentsService.Update(ctx, id, uid, &patch)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrAppointmentNotFound):
			logger.Error("appointment update error: unexist appointment")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "appointment doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrEmptyPatch):
			logger.Error("appointment update error: empty patch")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "patch contains no settable fields", nil)
		case isValidationError(err):
			logger.Error("appointment update error: validation failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid appointment fields", err)
		default:
			logger.Error("appointment update error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating appointment", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, appt)
	logger.Info("appointment updated")
}

func (s *Server) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("appointment deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("appointment deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid appointment id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	err = s.appointmentsService.Delete(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrAppointmentNotFound):
			logger.Error("appointment deletion error: unexist appointment")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "appointment doesn't exist", nil)
		default:
			logger.Error("appointment deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting appointment", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("appointment deleted")
}

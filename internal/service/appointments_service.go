package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/limbo/healthtrack/internal/cache"
	errorvalues "github.com/limbo/healthtrack/internal/error_values"
	"github.com/limbo/healthtrack/internal/repository"
	"github.com/limbo/healthtrack/pkg/entity"
)

type AppointmentsService struct {
	repo  repository.AppointmentsRepositoryI
	cache ListCacheI
}

func NewAppointmentsService(appointmentsRepo repository.AppointmentsRepositoryI, listCache ListCacheI) *AppointmentsService {
	if appointmentsRepo == nil {
		log.Fatal("provided nil appointmentsRepo")
	}
	return &AppointmentsService{
		repo:  appointmentsRepo,
		cache: listCache,
	}
}

func (as *AppointmentsService) Create(ctx context.Context, uid uuid.UUID, req *CreateAppointmentRequest) (*entity.Appointment, error) {
	if err := validate.Struct(*req); err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			joined := errors.New("validation error: ")
			for _, fieldErr := range validationError {
				joined = errors.Join(joined, fieldErr)
			}
			return nil, joined
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	id, err := as.repo.Create(ctx, &entity.Appointment{
		UserID:     uid,
		Title:      req.Title,
		Date:       req.Date,
		Time:       req.Time,
		DoctorName: req.DoctorName,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("appointments repository error: " + err.Error())
	}
	appt, err := as.repo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, errors.New("appointments repository error: " + err.Error())
	}
	as.invalidateList(ctx, uid)
	return appt, nil
}

func (as *AppointmentsService) List(ctx context.Context, uid uuid.UUID) ([]*entity.Appointment, error) {
	key := cache.AppointmentsKey(uid)
	if as.cache != nil {
		cached := make([]*entity.Appointment, 0)
		hit, err := as.cache.GetList(ctx, key, &cached)
		if err != nil {
			slog.Warn("appointments cache read failed", slog.String("error", err.Error()))
		}
		if hit {
			return cached, nil
		}
	}
	appts, err := as.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("appointments repository error: " + err.Error())
	}
	if as.cache != nil {
		if err := as.cache.SetList(ctx, key, appts); err != nil {
			slog.Warn("appointments cache write failed", slog.String("error", err.Error()))
		}
	}
	return appts, nil
}

func (as *AppointmentsService) Update(ctx context.Context, id, uid uuid.UUID, patch *entity.AppointmentPatch) (*entity.Appointment, error) {
	if patch == nil || patch.IsEmpty() {
		return nil, errorvalues.ErrEmptyPatch
	}
	if patch.Title != nil {
		if err := validate.Var(*patch.Title, "required,max=200"); err != nil {
			return nil, errors.New("validation error: invalid title")
		}
	}
	if patch.Date != nil {
		if err := validate.Var(*patch.Date, "datetime=2006-01-02"); err != nil {
			return nil, errors.New("validation error: invalid appointment date")
		}
	}
	if patch.Time != nil {
		if err := validate.Var(*patch.Time, "hhmm"); err != nil {
			return nil, errors.New("validation error: invalid appointment time")
		}
	}
	err := as.repo.Update(ctx, id, uid, patch)
	if err != nil {
		if errors.Is(err, errorvalues.ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, errors.New("appointments repository error: " + err.Error())
	}
	appt, err := as.repo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, errors.New("appointments repository error: " + err.Error())
	}
	as.invalidateList(ctx, uid)
	return appt, nil
}

func (as *AppointmentsService) Delete(ctx context.Context, id, uid uuid.UUID) error {
	err := as.repo.Delete(ctx, id, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrAppointmentNotFound) {
			return err
		}
		return errors.New("appointments repository error: " + err.Error())
	}
	as.invalidateList(ctx, uid)
	return nil
}

// Partition puts every appointment in exactly one bucket: upcoming when
// its date+time is at or after now, past otherwise. Rows with an
// unparseable date are treated as past rather than dropped.
func (as *AppointmentsService) Partition(ctx context.Context, uid uuid.UUID, now time.Time) (*AppointmentPartition, error) {
	appts, err := as.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	partition := &AppointmentPartition{
		Upcoming: make([]*entity.Appointment, 0, len(appts)),
		Past:     make([]*entity.Appointment, 0),
	}
	for _, appt := range appts {
		start, err := appt.StartTime()
		if err == nil && !start.Before(now.UTC()) {
			partition.Upcoming = append(partition.Upcoming, appt)
		} else {
			partition.Past = append(partition.Past, appt)
		}
	}
	return partition, nil
}

func (as *AppointmentsService) invalidateList(ctx context.Context, uid uuid.UUID) {
	if as.cache == nil {
		return
	}
	if err := as.cache.Invalidate(ctx, cache.AppointmentsKey(uid)); err != nil {
		slog.Warn("appointments cache invalidation failed", slog.String("error", err.Error()))
	}
}

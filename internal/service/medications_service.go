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

type MedicationsService struct {
	medsRepo repository.MedicationsRepositoryI
	logsRepo repository.MedicationLogsRepositoryI
	cache    ListCacheI
}

func NewMedicationsService(medsRepo repository.MedicationsRepositoryI, logsRepo repository.MedicationLogsRepositoryI, listCache ListCacheI) *MedicationsService {
	if medsRepo == nil || logsRepo == nil {
		log.Fatal("on medications service provided nil repos")
	}
	return &MedicationsService{
		medsRepo: medsRepo,
		logsRepo: logsRepo,
		cache:    listCache,
	}
}

// dayStartUTC pins the "today" window used for dose logs. One boundary
// for every client beats guessing local time zones.
func dayStartUTC(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour)
}

func (ms *MedicationsService) Create(ctx context.Context, uid uuid.UUID, req *CreateMedicationRequest) (*entity.Medication, error) {
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
	frequency := req.Frequency
	if frequency == "" {
		frequency = "daily"
	}
	id, err := ms.medsRepo.Create(ctx, &entity.Medication{
		UserID:    uid,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: frequency,
		TimeOfDay: req.TimeOfDay,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		IsActive:  req.IsActive,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("medications repository error: " + err.Error())
	}
	med, err := ms.medsRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, errors.New("medications repository error: " + err.Error())
	}
	ms.invalidateMedications(ctx, uid)
	return med, nil
}

func (ms *MedicationsService) List(ctx context.Context, uid uuid.UUID) ([]*entity.Medication, error) {
	key := cache.MedicationsKey(uid)
	if ms.cache != nil {
		cached := make([]*entity.Medication, 0)
		hit, err := ms.cache.GetList(ctx, key, &cached)
		if err != nil {
			slog.Warn("medications cache read failed", slog.String("error", err.Error()))
		}
		if hit {
			return cached, nil
		}
	}
	meds, err := ms.medsRepo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("medications repository error: " + err.Error())
	}
	if ms.cache != nil {
		if err := ms.cache.SetList(ctx, key, meds); err != nil {
			slog.Warn("medications cache write failed", slog.String("error", err.Error()))
		}
	}
	return meds, nil
}

func (ms *MedicationsService) Update(ctx context.Context, id, uid uuid.UUID, patch *entity.MedicationPatch) (*entity.Medication, error) {
	if patch == nil || patch.IsEmpty() {
		return nil, errorvalues.ErrEmptyPatch
	}
	if patch.Name != nil {
		if err := validate.Var(*patch.Name, "required,max=200"); err != nil {
			return nil, errors.New("validation error: invalid name")
		}
	}
	if patch.Dosage != nil {
		if err := validate.Var(*patch.Dosage, "required,max=100"); err != nil {
			return nil, errors.New("validation error: invalid dosage")
		}
	}
	if patch.TimeOfDay != nil {
		// Removing the last remaining time is rejected
		if len(*patch.TimeOfDay) == 0 {
			return nil, errorvalues.ErrEmptyTimeOfDay
		}
		if err := validate.Var(*patch.TimeOfDay, "unique,dive,hhmm"); err != nil {
			return nil, errors.New("validation error: invalid time of day values")
		}
	}
	if patch.StartDate != nil {
		if err := validate.Var(*patch.StartDate, "datetime=2006-01-02"); err != nil {
			return nil, errors.New("validation error: invalid start date")
		}
	}
	if patch.EndDate != nil && *patch.EndDate != "" {
		if err := validate.Var(*patch.EndDate, "datetime=2006-01-02"); err != nil {
			return nil, errors.New("validation error: invalid end date")
		}
	}
	err := ms.medsRepo.Update(ctx, id, uid, patch)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMedicationNotFound) {
			return nil, err
		}
		return nil, errors.New("medications repository error: " + err.Error())
	}
	med, err := ms.medsRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, errors.New("medications repository error: " + err.Error())
	}
	ms.invalidateMedications(ctx, uid)
	return med, nil
}

func (ms *MedicationsService) Delete(ctx context.Context, id, uid uuid.UUID) error {
	err := ms.medsRepo.Delete(ctx, id, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMedicationNotFound) {
			return err
		}
		return errors.New("medications repository error: " + err.Error())
	}
	ms.invalidateMedications(ctx, uid)
	return nil
}

func (ms *MedicationsService) ListTodayLogs(ctx context.Context, uid uuid.UUID, now time.Time) ([]entity.MedicationLog, error) {
	dayStart := dayStartUTC(now)
	key := cache.MedicationLogsKey(uid, dayStart)
	if ms.cache != nil {
		cached := make([]entity.MedicationLog, 0)
		hit, err := ms.cache.GetList(ctx, key, &cached)
		if err != nil {
			slog.Warn("medication logs cache read failed", slog.String("error", err.Error()))
		}
		if hit {
			return cached, nil
		}
	}
	logs, err := ms.logsRepo.GetByUserSince(ctx, uid, dayStart)
	if err != nil {
		return nil, errors.New("medication logs repository error: " + err.Error())
	}
	if ms.cache != nil {
		if err := ms.cache.SetList(ctx, key, logs); err != nil {
			slog.Warn("medication logs cache write failed", slog.String("error", err.Error()))
		}
	}
	return logs, nil
}

func (ms *MedicationsService) LogDose(ctx context.Context, uid, medicationID uuid.UUID, scheduledTime string, now time.Time) (*entity.MedicationLog, error) {
	if err := validate.Var(scheduledTime, "hhmm"); err != nil {
		return nil, errors.New("validation error: invalid scheduled time")
	}
	// Ownership check: the medication must exist and belong to uid
	_, err := ms.medsRepo.GetByID(ctx, medicationID, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMedicationNotFound) {
			return nil, err
		}
		return nil, errors.New("medications repository error: " + err.Error())
	}
	dayStart := dayStartUTC(now)
	exists, err := ms.logsRepo.Exists(ctx, uid, medicationID, scheduledTime, dayStart)
	if err != nil {
		return nil, errors.New("medication logs repository error: " + err.Error())
	}
	if exists {
		return nil, errorvalues.ErrDoseAlreadyLogged
	}
	id, err := ms.logsRepo.Create(ctx, &entity.MedicationLog{
		UserID:        uid,
		MedicationID:  medicationID,
		ScheduledTime: scheduledTime,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("medication logs repository error: " + err.Error())
	}
	if ms.cache != nil {
		if err := ms.cache.Invalidate(ctx, cache.MedicationLogsKey(uid, dayStart)); err != nil {
			slog.Warn("medication logs cache invalidation failed", slog.String("error", err.Error()))
		}
	}
	return &entity.MedicationLog{
		ID:            id,
		UserID:        uid,
		MedicationID:  medicationID,
		ScheduledTime: scheduledTime,
		TakenAt:       now,
	}, nil
}

func (ms *MedicationsService) invalidateMedications(ctx context.Context, uid uuid.UUID) {
	if ms.cache == nil {
		return
	}
	if err := ms.cache.Invalidate(ctx, cache.MedicationsKey(uid)); err != nil {
		slog.Warn("medications cache invalidation failed", slog.String("error", err.Error()))
	}
}

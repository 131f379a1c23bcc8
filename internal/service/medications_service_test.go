package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	errorvalues "github.com/limbo/healthtrack/internal/error_values"
	"github.com/limbo/healthtrack/internal/service"
	"github.com/limbo/healthtrack/pkg/entity"
)

var (
	medUserID = uuid.New()
	testMedID = uuid.New()
	testMed   = entity.Medication{
		ID:        testMedID,
		UserID:    medUserID,
		Name:      "Aspirin",
		Dosage:    "100mg",
		Frequency: "daily",
		TimeOfDay: []string{"08:00", "20:00"},
		StartDate: "2025-01-01",
		IsActive:  true,
		CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
)

type medsRepoMock struct {
	state   mockState
	created *entity.Medication
}

func (mrmock *medsRepoMock) Create(ctx context.Context, med *entity.Medication) (uuid.UUID, error) {
	switch mrmock.state {
	case stateOwnerNotFoundError:
		return uuid.UUID{}, errorvalues.ErrOwnerNotFound
	case stateDBError:
		return uuid.UUID{}, errors.New("db error")
	default:
		mrmock.created = med
		return testMedID, nil
	}
}

func (mrmock *medsRepoMock) GetByID(ctx context.Context, id, uid uuid.UUID) (*entity.Medication, error) {
	switch mrmock.state {
	case stateNotFoundError:
		return nil, errorvalues.ErrMedicationNotFound
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return &testMed, nil
	}
}

func (mrmock *medsRepoMock) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Medication, error) {
	switch mrmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return []*entity.Medication{&testMed}, nil
	}
}

func (mrmock *medsRepoMock) Update(ctx context.Context, id, uid uuid.UUID, patch *entity.MedicationPatch) error {
	switch mrmock.state {
	case stateNotFoundError:
		return errorvalues.ErrMedicationNotFound
	case stateDBError:
		return errors.New("db error")
	default:
		return nil
	}
}

func (mrmock *medsRepoMock) Delete(ctx context.Context, id, uid uuid.UUID) error {
	switch mrmock.state {
	case stateNotFoundError:
		return errorvalues.ErrMedicationNotFound
	case stateDBError:
		return errors.New("db error")
	default:
		return nil
	}
}

// medLogsRepoMock keeps inserted logs in memory so duplicate checks and
// listings behave like the real table within a single test.
type medLogsRepoMock struct {
	state mockState
	logs  []entity.MedicationLog
	since time.Time
}

func (lrmock *medLogsRepoMock) Create(ctx context.Context, medLog *entity.MedicationLog) (uuid.UUID, error) {
	switch lrmock.state {
	case stateOwnerNotFoundError:
		return uuid.UUID{}, errorvalues.ErrOwnerNotFound
	case stateDBError:
		return uuid.UUID{}, errors.New("db error")
	default:
		stored := *medLog
		stored.ID = uuid.New()
		stored.TakenAt = time.Now().UTC()
		lrmock.logs = append(lrmock.logs, stored)
		return stored.ID, nil
	}
}

func (lrmock *medLogsRepoMock) GetByUserSince(ctx context.Context, uid uuid.UUID, since time.Time) ([]entity.MedicationLog, error) {
	lrmock.since = since
	switch lrmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return lrmock.logs, nil
	}
}

func (lrmock *medLogsRepoMock) Exists(ctx context.Context, uid, medicationID uuid.UUID, scheduledTime string, since time.Time) (bool, error) {
	switch lrmock.state {
	case stateDuplicateLogError:
		return true, nil
	case stateDBError:
		return false, errors.New("db error")
	default:
		for _, stored := range lrmock.logs {
			if stored.UserID == uid && stored.MedicationID == medicationID && stored.ScheduledTime == scheduledTime {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestCreateMedicationService(t *testing.T) {
	mock := &medsRepoMock{state: stateSuccess}
	s := service.NewMedicationsService(mock, &medLogsRepoMock{state: stateSuccess}, nil)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		med, err := s.Create(ctx, medUserID, &service.CreateMedicationRequest{
			Name:      testMed.Name,
			Dosage:    testMed.Dosage,
			Frequency: testMed.Frequency,
			TimeOfDay: testMed.TimeOfDay,
			StartDate: testMed.StartDate,
			IsActive:  true,
		})
		assert.NoError(t, err)
		assert.Equal(t, testMed, *med)
	})
	t.Run("empty frequency defaults to daily", func(t *testing.T) {
		_, err := s.Create(ctx, medUserID, &service.CreateMedicationRequest{
			Name:      testMed.Name,
			Dosage:    testMed.Dosage,
			TimeOfDay: testMed.TimeOfDay,
			StartDate: testMed.StartDate,
		})
		assert.NoError(t, err)
		assert.Equal(t, "daily", mock.created.Frequency)
	})
	t.Run("empty time of day", func(t *testing.T) {
		_, err := s.Create(ctx, medUserID, &service.CreateMedicationRequest{
			Name:      testMed.Name,
			Dosage:    testMed.Dosage,
			TimeOfDay: []string{},
			StartDate: testMed.StartDate,
		})
		assert.Error(t, err)
	})
	t.Run("duplicate time of day entries", func(t *testing.T) {
		_, err := s.Create(ctx, medUserID, &service.CreateMedicationRequest{
			Name:      testMed.Name,
			Dosage:    testMed.Dosage,
			TimeOfDay: []string{"08:00", "08:00"},
			StartDate: testMed.StartDate,
		})
		assert.Error(t, err)
	})
	t.Run("malformed time of day entry", func(t *testing.T) {
		_, err := s.Create(ctx, medUserID, &service.CreateMedicationRequest{
			Name:      testMed.Name,
			Dosage:    testMed.Dosage,
			TimeOfDay: []string{"8 in the morning"},
			StartDate: testMed.StartDate,
		})
		assert.Error(t, err)
	})
	t.Run("owner not found", func(t *testing.T) {
		mock.state = stateOwnerNotFoundError
		_, err := s.Create(ctx, medUserID, &service.CreateMedicationRequest{
			Name:      testMed.Name,
			Dosage:    testMed.Dosage,
			TimeOfDay: testMed.TimeOfDay,
			StartDate: testMed.StartDate,
		})
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestListMedicationsService(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		s := service.NewMedicationsService(&medsRepoMock{state: stateSuccess}, &medLogsRepoMock{state: stateSuccess}, nil)
		meds, err := s.List(ctx, medUserID)
		assert.NoError(t, err)
		assert.Len(t, meds, 1)
		assert.Equal(t, testMed, *meds[0])
	})
	t.Run("db error", func(t *testing.T) {
		s := service.NewMedicationsService(&medsRepoMock{state: stateDBError}, &medLogsRepoMock{state: stateSuccess}, nil)
		_, err := s.List(ctx, medUserID)
		assert.Error(t, err)
	})
}

func TestUpdateMedicationService(t *testing.T) {
	mock := &medsRepoMock{state: stateSuccess}
	s := service.NewMedicationsService(mock, &medLogsRepoMock{state: stateSuccess}, nil)
	ctx := context.Background()
	newDosage := "150mg"
	t.Run("success", func(t *testing.T) {
		med, err := s.Update(ctx, testMedID, medUserID, &entity.MedicationPatch{Dosage: &newDosage})
		assert.NoError(t, err)
		assert.Equal(t, testMed, *med)
	})
	t.Run("empty patch", func(t *testing.T) {
		_, err := s.Update(ctx, testMedID, medUserID, &entity.MedicationPatch{})
		assert.ErrorIs(t, err, errorvalues.ErrEmptyPatch)
	})
	t.Run("removing every scheduled time", func(t *testing.T) {
		empty := []string{}
		_, err := s.Update(ctx, testMedID, medUserID, &entity.MedicationPatch{TimeOfDay: &empty})
		assert.ErrorIs(t, err, errorvalues.ErrEmptyTimeOfDay)
	})
	t.Run("malformed time of day values", func(t *testing.T) {
		bad := []string{"later"}
		_, err := s.Update(ctx, testMedID, medUserID, &entity.MedicationPatch{TimeOfDay: &bad})
		assert.Error(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.state = stateNotFoundError
		_, err := s.Update(ctx, testMedID, medUserID, &entity.MedicationPatch{Dosage: &newDosage})
		assert.ErrorIs(t, err, errorvalues.ErrMedicationNotFound)
	})
}

func TestDeleteMedicationService(t *testing.T) {
	mock := &medsRepoMock{state: stateSuccess}
	s := service.NewMedicationsService(mock, &medLogsRepoMock{state: stateSuccess}, nil)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, testMedID, medUserID))
	})
	t.Run("not found", func(t *testing.T) {
		mock.state = stateNotFoundError
		assert.ErrorIs(t, s.Delete(ctx, testMedID, medUserID), errorvalues.ErrMedicationNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.state = stateDBError
		assert.Error(t, s.Delete(ctx, testMedID, medUserID))
	})
}

func TestListTodayLogs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	t.Run("queries since start of the UTC day", func(t *testing.T) {
		logsMock := &medLogsRepoMock{state: stateSuccess}
		s := service.NewMedicationsService(&medsRepoMock{state: stateSuccess}, logsMock, nil)
		logs, err := s.ListTodayLogs(ctx, medUserID, now)
		assert.NoError(t, err)
		assert.Empty(t, logs)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), logsMock.since)
	})
	t.Run("db error", func(t *testing.T) {
		s := service.NewMedicationsService(&medsRepoMock{state: stateSuccess}, &medLogsRepoMock{state: stateDBError}, nil)
		_, err := s.ListTodayLogs(ctx, medUserID, now)
		assert.Error(t, err)
	})
}

func TestLogDose(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 5, 0, 0, time.UTC)
	t.Run("full day flow", func(t *testing.T) {
		logsMock := &medLogsRepoMock{state: stateSuccess}
		s := service.NewMedicationsService(&medsRepoMock{state: stateSuccess}, logsMock, nil)

		morning, err := s.LogDose(ctx, medUserID, testMedID, "08:00", now)
		assert.NoError(t, err)
		assert.Equal(t, "08:00", morning.ScheduledTime)
		assert.Equal(t, testMedID, morning.MedicationID)
		assert.Equal(t, now, morning.TakenAt)

		_, err = s.LogDose(ctx, medUserID, testMedID, "08:00", now.Add(time.Minute))
		assert.ErrorIs(t, err, errorvalues.ErrDoseAlreadyLogged)

		evening, err := s.LogDose(ctx, medUserID, testMedID, "20:00", now.Add(12*time.Hour))
		assert.NoError(t, err)
		assert.NotEqual(t, morning.ID, evening.ID)

		logs, err := s.ListTodayLogs(ctx, medUserID, now.Add(12*time.Hour))
		assert.NoError(t, err)
		assert.Len(t, logs, 2)
	})
	t.Run("malformed scheduled time", func(t *testing.T) {
		s := service.NewMedicationsService(&medsRepoMock{state: stateSuccess}, &medLogsRepoMock{state: stateSuccess}, nil)
		_, err := s.LogDose(ctx, medUserID, testMedID, "8am", now)
		assert.Error(t, err)
	})
	t.Run("medication not owned", func(t *testing.T) {
		s := service.NewMedicationsService(&medsRepoMock{state: stateNotFoundError}, &medLogsRepoMock{state: stateSuccess}, nil)
		_, err := s.LogDose(ctx, medUserID, uuid.New(), "08:00", now)
		assert.ErrorIs(t, err, errorvalues.ErrMedicationNotFound)
	})
	t.Run("duplicate reported by storage", func(t *testing.T) {
		s := service.NewMedicationsService(&medsRepoMock{state: stateSuccess}, &medLogsRepoMock{state: stateDuplicateLogError}, nil)
		_, err := s.LogDose(ctx, medUserID, testMedID, "08:00", now)
		assert.ErrorIs(t, err, errorvalues.ErrDoseAlreadyLogged)
	})
	t.Run("db error", func(t *testing.T) {
		s := service.NewMedicationsService(&medsRepoMock{state: stateSuccess}, &medLogsRepoMock{state: stateDBError}, nil)
		_, err := s.LogDose(ctx, medUserID, testMedID, "08:00", now)
		assert.Error(t, err)
	})
}

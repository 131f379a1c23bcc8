package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/healthtrack/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateAppointmentRequest struct {
	Title      string `validate:"required,max=200"`
	Date       string `validate:"required,datetime=2006-01-02"`
	Time       string `validate:"required,hhmm"`
	DoctorName string `validate:"max=200"`
	Location   string `validate:"max=300"`
	Notes      string `validate:"max=2000"`
}

type CreateMedicationRequest struct {
	Name      string   `validate:"required,max=200"`
	Dosage    string   `validate:"required,max=100"`
	Frequency string   `validate:"max=100"`
	TimeOfDay []string `validate:"required,min=1,unique,dive,hhmm"`
	StartDate string   `validate:"required,datetime=2006-01-02"`
	EndDate   string   `validate:"omitempty,datetime=2006-01-02"`
	Notes     string   `validate:"max=2000"`
	IsActive  bool
}

type SaveProfileRequest struct {
	FullName string `validate:"max=200"`
	Phone    string `validate:"max=30"`
}

// AppointmentPartition splits a user's appointments around an instant.
// Every appointment lands in exactly one of the two slices.
type AppointmentPartition struct {
	Upcoming []*entity.Appointment `json:"upcoming"`
	Past     []*entity.Appointment `json:"past"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type AppointmentsServiceI interface {
	// Validates request, stores appointment owned by uid, returns the created record
	Create(ctx context.Context, uid uuid.UUID, req *CreateAppointmentRequest) (*entity.Appointment, error)
	// Lists uid's appointments ordered by date then time ascending
	List(ctx context.Context, uid uuid.UUID) ([]*entity.Appointment, error)
	// Applies a partial update to uid's appointment, returns the updated record
	Update(ctx context.Context, id, uid uuid.UUID, patch *entity.AppointmentPatch) (*entity.Appointment, error)
	Delete(ctx context.Context, id, uid uuid.UUID) error
	// Splits uid's appointments into upcoming and past relative to now
	Partition(ctx context.Context, uid uuid.UUID, now time.Time) (*AppointmentPartition, error)
}

type MedicationsServiceI interface {
	// Validates request, stores medication owned by uid, returns the created record
	Create(ctx context.Context, uid uuid.UUID, req *CreateMedicationRequest) (*entity.Medication, error)
	// Lists uid's medications ordered by name ascending
	List(ctx context.Context, uid uuid.UUID) ([]*entity.Medication, error)
	// Applies a partial update to uid's medication, returns the updated record
	Update(ctx context.Context, id, uid uuid.UUID, patch *entity.MedicationPatch) (*entity.Medication, error)
	Delete(ctx context.Context, id, uid uuid.UUID) error
	// Lists uid's dose logs taken within the current UTC day
	ListTodayLogs(ctx context.Context, uid uuid.UUID, now time.Time) ([]entity.MedicationLog, error)
	// Records a dose of uid's medication for the given scheduled time.
	// Rejects a second log of the same (medication, time) pair within the day
	LogDose(ctx context.Context, uid, medicationID uuid.UUID, scheduledTime string, now time.Time) (*entity.MedicationLog, error)
}

type ProfileServiceI interface {
	Get(ctx context.Context, uid uuid.UUID) (*entity.Profile, error)
	// Creates the profile row on first save, updates it afterwards
	Save(ctx context.Context, uid uuid.UUID, req *SaveProfileRequest) (*entity.Profile, error)
}

type ListCacheI interface {
	GetList(ctx context.Context, key string, dest any) (bool, error)
	SetList(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/healthtrack/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
}

type AppointmentsRepositoryI interface {
	// Creates new appointment owned by appt.UserID. Returns generated id
	Create(ctx context.Context, appt *entity.Appointment) (uuid.UUID, error)
	// Searches appointment with given id owned by uid
	GetByID(ctx context.Context, id, uid uuid.UUID) (*entity.Appointment, error)
	// Lists appointments of uid ordered by date then time ascending
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Appointment, error)
	// Applies non-nil patch fields to the row owned by uid
	Update(ctx context.Context, id, uid uuid.UUID, patch *entity.AppointmentPatch) error
	// Deletes appointment owned by uid
	Delete(ctx context.Context, id, uid uuid.UUID) error
}

type MedicationsRepositoryI interface {
	// Creates new medication owned by med.UserID. Returns generated id
	Create(ctx context.Context, med *entity.Medication) (uuid.UUID, error)
	// Searches medication with given id owned by uid
	GetByID(ctx context.Context, id, uid uuid.UUID) (*entity.Medication, error)
	// Lists medications of uid ordered by name ascending
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Medication, error)
	// Applies non-nil patch fields to the row owned by uid
	Update(ctx context.Context, id, uid uuid.UUID, patch *entity.MedicationPatch) error
	// Deletes medication owned by uid
	Delete(ctx context.Context, id, uid uuid.UUID) error
}

type MedicationLogsRepositoryI interface {
	// Inserts a dose log. Returns generated id
	Create(ctx context.Context, log *entity.MedicationLog) (uuid.UUID, error)
	// Lists logs of uid with taken_at on or after since
	GetByUserSince(ctx context.Context, uid uuid.UUID, since time.Time) ([]entity.MedicationLog, error)
	// Inspects if a log of (medication, scheduled time) exists since given instant
	Exists(ctx context.Context, uid, medicationID uuid.UUID, scheduledTime string, since time.Time) (bool, error)
}

type ProfilesRepositoryI interface {
	// Looks up the single profile row of uid
	GetByUserID(ctx context.Context, uid uuid.UUID) (*entity.Profile, error)
	// Inserts the profile row or updates it if one exists for the user
	Upsert(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}

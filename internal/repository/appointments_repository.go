package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/healthtrack/internal/error_values"
	"github.com/limbo/healthtrack/pkg/cleanup"
	"github.com/limbo/healthtrack/pkg/entity"
)

type AppointmentsRepository struct {
	conn PgConnection
}

func NewAppointmentsRepo(cfg DBConfig) *AppointmentsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for appointmentsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for appointmentsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &AppointmentsRepository{
		conn: pool,
	}
}

func NewAppointmentsRepoWithConn(conn PgConnection) *AppointmentsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for appointmentsRepo: " + err.Error())
	}
	return &AppointmentsRepository{
		conn: conn,
	}
}

func (ar *AppointmentsRepository) Create(ctx context.Context, appt *entity.Appointment) (uuid.UUID, error) {
	var id uuid.UUID
	row := ar.conn.QueryRow(ctx, `INSERT INTO appointments (user_id, title, appointment_date, appointment_time, doctor_name, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		appt.UserID,
		appt.Title,
		appt.Date,
		appt.Time,
		appt.DoctorName,
		appt.Location,
		appt.Notes,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating appointment db error: " + err.Error())
	}
	return id, nil
}

func (ar *AppointmentsRepository) GetByID(ctx context.Context, id, uid uuid.UUID) (*entity.Appointment, error) {
	var appt entity.Appointment
	appt.ID = id
	row := ar.conn.QueryRow(ctx, `SELECT user_id, title, to_char(appointment_date, 'YYYY-MM-DD'), to_char(appointment_time, 'HH24:MI'), doctor_name, location, notes, created_at, updated_at
		FROM appointments WHERE id = $1 AND user_id = $2;`, id, uid)
	if err := row.Scan(&appt.UserID, &appt.Title, &appt.Date, &appt.Time, &appt.DoctorName, &appt.Location, &appt.Notes, &appt.CreatedAt, &appt.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrAppointmentNotFound
		}
		return nil, errors.New("getting appointment by id error: " + err.Error())
	}
	return &appt, nil
}

func (ar *AppointmentsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Appointment, error) {
	appts := make([]*entity.Appointment, 0)
	rows, err := ar.conn.Query(ctx, `SELECT id, user_id, title, to_char(appointment_date, 'YYYY-MM-DD'), to_char(appointment_time, 'HH24:MI'), doctor_name, location, notes, created_at, updated_at
		FROM appointments WHERE user_id = $1 ORDER BY appointment_date ASC, appointment_time ASC;`, uid)
	if err != nil {
		return nil, errors.New("getting appointments by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		a := entity.Appointment{}
		err = rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Date, &a.Time, &a.DoctorName, &a.Location, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling appointment error: " + err.Error())
		}
		appts = append(appts, &a)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return appts, nil
}

func (ar *AppointmentsRepository) Update(ctx context.Context, id, uid uuid.UUID, patch *entity.AppointmentPatch) error {
	if patch == nil || patch.IsEmpty() {
		return errorvalues.ErrEmptyPatch
	}
	assignments := make([]string, 0, 6)
	args := make([]any, 0, 8)
	addAssignment := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		addAssignment("title", *patch.Title)
	}
	if patch.Date != nil {
		addAssignment("appointment_date", *patch.Date)
	}
	if patch.Time != nil {
		addAssignment("appointment_time", *patch.Time)
	}
	if patch.DoctorName != nil {
		addAssignment("doctor_name", *patch.DoctorName)
	}
	if patch.Location != nil {
		addAssignment("location", *patch.Location)
	}
	if patch.Notes != nil {
		addAssignment("notes", *patch.Notes)
	}
	args = append(args, id, uid)
	query := fmt.Sprintf(`UPDATE appointments SET %s, updated_at = NOW() WHERE id = $%d AND user_id = $%d;`,
		strings.Join(assignments, ", "), len(args)-1, len(args))
	ct, err := ar.conn.Exec(ctx, query, args...)
	if err != nil {
		return errors.New("error updating appointment: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrAppointmentNotFound
	}
	return nil
}

func (ar *AppointmentsRepository) Delete(ctx context.Context, id, uid uuid.UUID) error {
	ct, err := ar.conn.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND user_id = $2;`, id, uid)
	if err != nil {
		return errors.New("error deleting appointment: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrAppointmentNotFound
	}
	return nil
}

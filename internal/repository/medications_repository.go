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

type MedicationsRepository struct {
	conn PgConnection
}

func NewMedicationsRepo(cfg DBConfig) *MedicationsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for medicationsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for medicationsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &MedicationsRepository{
		conn: pool,
	}
}

func NewMedicationsRepoWithConn(conn PgConnection) *MedicationsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for medicationsRepo: " + err.Error())
	}
	return &MedicationsRepository{
		conn: conn,
	}
}

func (mr *MedicationsRepository) Create(ctx context.Context, med *entity.Medication) (uuid.UUID, error) {
	var id uuid.UUID
	row := mr.conn.QueryRow(ctx, `INSERT INTO medications (user_id, name, dosage, frequency, time_of_day, start_date, end_date, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9) RETURNING id;`,
		med.UserID,
		med.Name,
		med.Dosage,
		med.Frequency,
		med.TimeOfDay,
		med.StartDate,
		med.EndDate,
		med.Notes,
		med.IsActive,
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
		return uuid.UUID{}, errors.New("creating medication db error: " + err.Error())
	}
	return id, nil
}

func (mr *MedicationsRepository) GetByID(ctx context.Context, id, uid uuid.UUID) (*entity.Medication, error) {
	var med entity.Medication
	med.ID = id
	row := mr.conn.QueryRow(ctx, `SELECT user_id, name, dosage, frequency, time_of_day, to_char(start_date, 'YYYY-MM-DD'), coalesce(to_char(end_date, 'YYYY-MM-DD'), ''), notes, is_active, created_at, updated_at
		FROM medications WHERE id = $1 AND user_id = $2;`, id, uid)
	if err := row.Scan(&med.UserID, &med.Name, &med.Dosage, &med.Frequency, &med.TimeOfDay, &med.StartDate, &med.EndDate, &med.Notes, &med.IsActive, &med.CreatedAt, &med.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrMedicationNotFound
		}
		return nil, errors.New("getting medication by id error: " + err.Error())
	}
	return &med, nil
}

func (mr *MedicationsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Medication, error) {
	meds := make([]*entity.Medication, 0)
	rows, err := mr.conn.Query(ctx, `SELECT id, user_id, name, dosage, frequency, time_of_day, to_char(start_date, 'YYYY-MM-DD'), coalesce(to_char(end_date, 'YYYY-MM-DD'), ''), notes, is_active, created_at, updated_at
		FROM medications WHERE user_id = $1 ORDER BY name ASC;`, uid)
	if err != nil {
		return nil, errors.New("getting medications by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		m := entity.Medication{}
		err = rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.TimeOfDay, &m.StartDate, &m.EndDate, &m.Notes, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling medication error: " + err.Error())
		}
		meds = append(meds, &m)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return meds, nil
}

func (mr *MedicationsRepository) Update(ctx context.Context, id, uid uuid.UUID, patch *entity.MedicationPatch) error {
	if patch == nil || patch.IsEmpty() {
		return errorvalues.ErrEmptyPatch
	}
	assignments := make([]string, 0, 8)
	args := make([]any, 0, 10)
	addAssignment := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		addAssignment("name", *patch.Name)
	}
	if patch.Dosage != nil {
		addAssignment("dosage", *patch.Dosage)
	}
	if patch.Frequency != nil {
		addAssignment("frequency", *patch.Frequency)
	}
	if patch.TimeOfDay != nil {
		addAssignment("time_of_day", *patch.TimeOfDay)
	}
	if patch.StartDate != nil {
		addAssignment("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		args = append(args, *patch.EndDate)
		assignments = append(assignments, fmt.Sprintf("end_date = NULLIF($%d, '')", len(args)))
	}
	if patch.Notes != nil {
		addAssignment("notes", *patch.Notes)
	}
	if patch.IsActive != nil {
		addAssignment("is_active", *patch.IsActive)
	}
	args = append(args, id, uid)
	query := fmt.Sprintf(`UPDATE medications SET %s, updated_at = NOW() WHERE id = $%d AND user_id = $%d;`,
		strings.Join(assignments, ", "), len(args)-1, len(args))
	ct, err := mr.conn.Exec(ctx, query, args...)
	if err != nil {
		return errors.New("error updating medication: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMedicationNotFound
	}
	return nil
}

func (mr *MedicationsRepository) Delete(ctx context.Context, id, uid uuid.UUID) error {
	ct, err := mr.conn.Exec(ctx, `DELETE FROM medications WHERE id = $1 AND user_id = $2;`, id, uid)
	if err != nil {
		return errors.New("error deleting medication: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMedicationNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/healthtrack/internal/error_values"
	"github.com/limbo/healthtrack/pkg/cleanup"
	"github.com/limbo/healthtrack/pkg/entity"
)

type MedicationLogsRepository struct {
	conn PgConnection
}

func NewMedicationLogsRepo(cfg DBConfig) *MedicationLogsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for medicationLogsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for medicationLogsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &MedicationLogsRepository{
		conn: pool,
	}
}

func NewMedicationLogsRepoWithConn(conn PgConnection) *MedicationLogsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for medicationLogsRepo: " + err.Error())
	}
	return &MedicationLogsRepository{
		conn: conn,
	}
}

func (lr *MedicationLogsRepository) Create(ctx context.Context, medLog *entity.MedicationLog) (uuid.UUID, error) {
	var id uuid.UUID
	row := lr.conn.QueryRow(ctx, `INSERT INTO medication_logs (user_id, medication_id, scheduled_time) VALUES ($1, $2, $3) RETURNING id;`,
		medLog.UserID,
		medLog.MedicationID,
		medLog.ScheduledTime,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation on user_id
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating medication log error: " + err.Error())
	}
	return id, nil
}

func (lr *MedicationLogsRepository) GetByUserSince(ctx context.Context, uid uuid.UUID, since time.Time) ([]entity.MedicationLog, error) {
	rows, err := lr.conn.Query(
		ctx,
		`SELECT id, user_id, medication_id, to_char(scheduled_time, 'HH24:MI'), taken_at FROM medication_logs WHERE user_id = $1 AND taken_at >= $2;`,
		uid,
		since,
	)
	if err != nil {
		return nil, errors.New("getting medication logs error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.MedicationLog, 0, 2)
	for rows.Next() {
		medLog := entity.MedicationLog{}
		err = rows.Scan(&medLog.ID, &medLog.UserID, &medLog.MedicationID, &medLog.ScheduledTime, &medLog.TakenAt)
		if err != nil {
			return nil, errors.New("medication log row parsing error: " + err.Error())
		}
		result = append(result, medLog)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected medication log rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (lr *MedicationLogsRepository) Exists(ctx context.Context, uid, medicationID uuid.UUID, scheduledTime string, since time.Time) (bool, error) {
	var exists bool
	row := lr.conn.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM medication_logs WHERE user_id = $1 AND medication_id = $2 AND scheduled_time = $3 AND taken_at >= $4);`,
		uid,
		medicationID,
		scheduledTime,
		since,
	)
	err := row.Scan(&exists)
	if err != nil {
		return false, errors.New("inspecting if medication log exists error: " + err.Error())
	}
	return exists, nil
}

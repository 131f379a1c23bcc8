package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/healthtrack/internal/error_values"
	"github.com/limbo/healthtrack/pkg/cleanup"
	"github.com/limbo/healthtrack/pkg/entity"
)

type ProfilesRepository struct {
	conn PgConnection
}

func NewProfilesRepo(cfg DBConfig) *ProfilesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for profilesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ProfilesRepository{
		conn: pool,
	}
}

func NewProfilesRepoWithConn(conn PgConnection) *ProfilesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	return &ProfilesRepository{
		conn: conn,
	}
}

func (pr *ProfilesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	row := pr.conn.QueryRow(ctx, `SELECT id, user_id, full_name, phone, created_at, updated_at FROM profiles WHERE user_id = $1;`, uid)
	if err := row.Scan(&profile.ID, &profile.UserID, &profile.FullName, &profile.Phone, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProfileNotFound
		}
		return nil, errors.New("searching profile by uid error: " + err.Error())
	}
	return &profile, nil
}

// Upsert relies on the unique constraint on user_id, so a concurrent
// double-submit still ends with exactly one row per user.
func (pr *ProfilesRepository) Upsert(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	var saved entity.Profile
	row := pr.conn.QueryRow(ctx, `INSERT INTO profiles (user_id, full_name, phone) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET full_name = EXCLUDED.full_name, phone = EXCLUDED.phone, updated_at = NOW()
		RETURNING id, user_id, full_name, phone, created_at, updated_at;`,
		profile.UserID,
		profile.FullName,
		profile.Phone,
	)
	if err := row.Scan(&saved.ID, &saved.UserID, &saved.FullName, &saved.Phone, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrOwnerNotFound
			}
		}
		return nil, errors.New("upserting profile error: " + err.Error())
	}
	return &saved, nil
}

package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/registration-service/internal/domain"
)

// RegistrationRepository encapsulates registration persistence. The aggregate
// is always written whole: members and status travel in a single statement,
// which is what keeps a failed verification from persisting partial state.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) error
	Save(ctx context.Context, reg *domain.Registration) error
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository instantiates repository.
func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

const registrationColumns = `id, event_id, type, team_name, location, members, status, created_at, updated_at`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	members, err := json.Marshal(reg.Members)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO registrations (event_id, type, team_name, location, members, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		reg.EventID,
		reg.Type,
		reg.TeamName,
		reg.Location,
		members,
		reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

func (r *registrationRepository) Save(ctx context.Context, reg *domain.Registration) error {
	members, err := json.Marshal(reg.Members)
	if err != nil {
		return err
	}
	const query = `
        UPDATE registrations SET team_name=$1, location=$2, members=$3, status=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		reg.TeamName,
		reg.Location,
		members,
		reg.Status,
		reg.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	const query = `SELECT ` + registrationColumns + ` FROM registrations WHERE id=$1`
	return scanRegistration(r.pool.QueryRow(ctx, query, id))
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	const query = `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *reg)
	}
	return result, rows.Err()
}

func (r *registrationRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM registrations WHERE event_id=$1`, eventID)
	return err
}

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var reg domain.Registration
	var members []byte
	if err := row.Scan(
		&reg.ID,
		&reg.EventID,
		&reg.Type,
		&reg.TeamName,
		&reg.Location,
		&members,
		&reg.Status,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(members, &reg.Members); err != nil {
		return nil, err
	}
	return &reg, nil
}

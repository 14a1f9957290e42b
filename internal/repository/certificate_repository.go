package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/registration-service/internal/domain"
)

// CertificateRepository encapsulates certificate record persistence.
type CertificateRepository interface {
	Create(ctx context.Context, cert *domain.Certificate) error
	ListByEvent(ctx context.Context, eventID string) ([]domain.Certificate, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

type certificateRepository struct {
	pool *pgxpool.Pool
}

// NewCertificateRepository instantiates repository.
func NewCertificateRepository(pool *pgxpool.Pool) CertificateRepository {
	return &certificateRepository{pool: pool}
}

func (r *certificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	const query = `
        INSERT INTO certificates (event_id, registration_id, participant_name, file_path)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (event_id, registration_id, participant_name)
        DO UPDATE SET file_path = EXCLUDED.file_path
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		cert.EventID,
		cert.RegistrationID,
		cert.ParticipantName,
		cert.FilePath,
	).Scan(&cert.ID, &cert.CreatedAt)
}

func (r *certificateRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Certificate, error) {
	const query = `
        SELECT id, event_id, registration_id, participant_name, file_path, created_at
        FROM certificates WHERE event_id=$1 ORDER BY participant_name ASC`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Certificate
	for rows.Next() {
		var cert domain.Certificate
		if err := rows.Scan(
			&cert.ID,
			&cert.EventID,
			&cert.RegistrationID,
			&cert.ParticipantName,
			&cert.FilePath,
			&cert.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, cert)
	}
	return result, rows.Err()
}

func (r *certificateRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM certificates WHERE event_id=$1`, eventID)
	return err
}

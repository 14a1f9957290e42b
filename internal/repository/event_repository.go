package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/registration-service/internal/domain"
)

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, name, sport, date, location, fee, fee_currency, event_type, team_size,
               required_docs, poster_path, guideline_path, organizer_id, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	docs, err := json.Marshal(event.RequiredDocs)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO events (name, sport, date, location, fee, fee_currency, event_type, team_size, required_docs, poster_path, guideline_path, organizer_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.Name,
		event.Sport,
		event.Date,
		event.Location,
		event.Fee,
		event.FeeCurrency,
		event.EventType,
		event.TeamSize,
		docs,
		event.PosterPath,
		event.GuidelinePath,
		event.OrganizerID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	docs, err := json.Marshal(event.RequiredDocs)
	if err != nil {
		return err
	}
	const query = `
        UPDATE events SET name=$1, sport=$2, date=$3, location=$4, fee=$5, fee_currency=$6,
            event_type=$7, team_size=$8, required_docs=$9, poster_path=$10, guideline_path=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		event.Name,
		event.Sport,
		event.Date,
		event.Location,
		event.Fee,
		event.FeeCurrency,
		event.EventType,
		event.TeamSize,
		docs,
		event.PosterPath,
		event.GuidelinePath,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanEvent(row)
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE organizer_id=$1 ORDER BY date ASC`
	rows, err := r.pool.Query(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	var docs []byte
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Sport,
		&event.Date,
		&event.Location,
		&event.Fee,
		&event.FeeCurrency,
		&event.EventType,
		&event.TeamSize,
		&docs,
		&event.PosterPath,
		&event.GuidelinePath,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docs, &event.RequiredDocs); err != nil {
		return nil, err
	}
	return &event, nil
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var result []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

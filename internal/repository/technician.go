package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldops/dispatchd/internal/domain"
)

// TechnicianRepository handles database operations for technicians.
type TechnicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository creates a new TechnicianRepository.
func NewTechnicianRepository(pool *pgxpool.Pool) *TechnicianRepository {
	return &TechnicianRepository{pool: pool}
}

// GetByID retrieves a technician by ID.
func (r *TechnicianRepository) GetByID(ctx context.Context, technicianID int64) (*domain.Technician, error) {
	query, args, err := psql.
		Select("id", "name", "is_active", "created_at").
		From("technicians").
		Where(sq.Eq{"id": technicianID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t domain.Technician
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&t.ID,
		&t.Name,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("query technician: %w", err)
	}

	return &t, nil
}

// List retrieves all technicians ordered by name.
func (r *TechnicianRepository) List(ctx context.Context) ([]*domain.Technician, error) {
	query, args, err := psql.
		Select("id", "name", "is_active", "created_at").
		From("technicians").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query technicians: %w", err)
	}
	defer rows.Close()

	var technicians []*domain.Technician
	for rows.Next() {
		var t domain.Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		technicians = append(technicians, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return technicians, nil
}

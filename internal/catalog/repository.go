package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipline/shipline/internal/shared"
)

// Repository provides PostgreSQL backed access to box_sizes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const boxColumns = `id, description, width, height, length, volume, weight, price, custom_size`

// GetByID returns one box or shared.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Box, error) {
	query := `SELECT ` + boxColumns + ` FROM box_sizes WHERE id = $1`
	var b Box
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Description, &b.Width, &b.Height, &b.Length,
		&b.Volume, &b.Weight, &b.Price, &b.CustomSize,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get box %d: %w", id, err)
	}
	return &b, nil
}

// ListPredefined returns the non-custom boxes shown on the intake form.
func (r *Repository) ListPredefined(ctx context.Context) ([]Box, error) {
	query := `SELECT ` + boxColumns + ` FROM box_sizes WHERE custom_size = FALSE ORDER BY volume`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list boxes: %w", err)
	}
	defer rows.Close()

	var boxes []Box
	for rows.Next() {
		var b Box
		if err := rows.Scan(&b.ID, &b.Description, &b.Width, &b.Height, &b.Length,
			&b.Volume, &b.Weight, &b.Price, &b.CustomSize); err != nil {
			return nil, err
		}
		boxes = append(boxes, b)
	}
	return boxes, rows.Err()
}

// InsertCustom stores a one-off box created during guest intake and returns
// its id.
func (r *Repository) InsertCustom(ctx context.Context, b Box) (int64, error) {
	query := `
		INSERT INTO box_sizes (description, width, height, length, volume, weight, price, custom_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		b.Description, b.Width, b.Height, b.Length, b.Volume, b.Weight, b.Price,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("catalog: insert custom box: %w", err)
	}
	return id, nil
}

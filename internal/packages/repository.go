package packages

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipline/shipline/internal/platform/db"
	"github.com/shipline/shipline/internal/shared"
)

// Repository provides persistence for packages and their extra fees.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetPackage(ctx context.Context, id int64) (*Package, error)
	ListByReference(ctx context.Context, reference string) ([]Package, error)
	ListExtraFees(ctx context.Context, reference string) ([]ExtraFee, error)
	SumPrice(ctx context.Context, reference string) (float64, error)
	SumExtraFees(ctx context.Context, reference string) (float64, error)
	InsertExtraFee(ctx context.Context, fee ExtraFee) (int64, error)
	UpdateExtraFee(ctx context.Context, id int64, description string, amount float64) error
	UpdatePackageWeight(ctx context.Context, id int64, weight float64) error
}

// TxRepository exposes the writes that must share one transaction.
type TxRepository interface {
	InsertPackage(ctx context.Context, p Package) (int64, error)
	InsertExtraFee(ctx context.Context, fee ExtraFee) (int64, error)
	DeleteExtraFees(ctx context.Context, packageID int64, reference string) (int64, error)
	DeletePackage(ctx context.Context, id int64, reference string) error
}

type repository struct {
	pool *pgxpool.Pool
}

type txRepo struct {
	tx pgx.Tx
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// WithTx wraps fn in a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
	if err != nil && db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", shared.ErrConflict, err)
	}
	return err
}

const packageColumns = `id, reference, package_type, description, weight, price, box_id,
	custom_size, w, h, l, volume, chassis_no, engine_no, created_at`

func scanPackage(row pgx.Row) (*Package, error) {
	var p Package
	err := row.Scan(
		&p.ID, &p.Reference, &p.PackageType, &p.Description, &p.Weight, &p.Price,
		&p.BoxID, &p.CustomSize, &p.Width, &p.Height, &p.Length, &p.Volume,
		&p.ChassisNo, &p.EngineNo, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetPackage(ctx context.Context, id int64) (*Package, error) {
	query := `SELECT ` + packageColumns + ` FROM customer_package WHERE id = $1`
	return scanPackage(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) ListByReference(ctx context.Context, reference string) ([]Package, error) {
	query := `SELECT ` + packageColumns + ` FROM customer_package WHERE reference = $1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("packages: list: %w", err)
	}
	defer rows.Close()

	var out []Package
	for rows.Next() {
		var p Package
		if err := rows.Scan(
			&p.ID, &p.Reference, &p.PackageType, &p.Description, &p.Weight, &p.Price,
			&p.BoxID, &p.CustomSize, &p.Width, &p.Height, &p.Length, &p.Volume,
			&p.ChassisNo, &p.EngineNo, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) ListExtraFees(ctx context.Context, reference string) ([]ExtraFee, error) {
	query := `SELECT id, reference, package_id, description, amount, created_at
		FROM package_extra_fee WHERE reference = $1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("packages: list fees: %w", err)
	}
	defer rows.Close()

	var out []ExtraFee
	for rows.Next() {
		var f ExtraFee
		if err := rows.Scan(&f.ID, &f.Reference, &f.PackageID, &f.Description, &f.Amount, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *repository) SumPrice(ctx context.Context, reference string) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(price), 0) FROM customer_package WHERE reference = $1`,
		reference).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("packages: sum price: %w", err)
	}
	return total, nil
}

func (r *repository) SumExtraFees(ctx context.Context, reference string) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM package_extra_fee WHERE reference = $1`,
		reference).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("packages: sum fees: %w", err)
	}
	return total, nil
}

func insertExtraFee(ctx context.Context, q interface {
	QueryRow(context.Context, string, ...any) pgx.Row
}, fee ExtraFee) (int64, error) {
	var id int64
	err := q.QueryRow(ctx,
		`INSERT INTO package_extra_fee (reference, package_id, description, amount, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING id`,
		fee.Reference, fee.PackageID, fee.Description, fee.Amount,
	).Scan(&id)
	return id, err
}

func (r *repository) InsertExtraFee(ctx context.Context, fee ExtraFee) (int64, error) {
	id, err := insertExtraFee(ctx, r.pool, fee)
	if err != nil {
		return 0, fmt.Errorf("%w: insert extra fee: %v", shared.ErrPersistence, err)
	}
	return id, nil
}

func (r *repository) UpdateExtraFee(ctx context.Context, id int64, description string, amount float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE package_extra_fee SET description = $2, amount = $3 WHERE id = $1`,
		id, description, amount)
	if err != nil {
		return fmt.Errorf("%w: update extra fee: %v", shared.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdatePackageWeight(ctx context.Context, id int64, weight float64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE customer_package SET weight = $2 WHERE id = $1`, id, weight)
	if err != nil {
		return fmt.Errorf("%w: update weight: %v", shared.ErrPersistence, err)
	}
	return nil
}

func (t *txRepo) InsertPackage(ctx context.Context, p Package) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO customer_package
			(reference, package_type, description, weight, price, box_id, custom_size,
			 w, h, l, volume, chassis_no, engine_no, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		 RETURNING id`,
		p.Reference, p.PackageType, p.Description, p.Weight, p.Price, p.BoxID,
		p.CustomSize, p.Width, p.Height, p.Length, p.Volume, p.ChassisNo, p.EngineNo,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert package: %v", shared.ErrPersistence, err)
	}
	return id, nil
}

func (t *txRepo) InsertExtraFee(ctx context.Context, fee ExtraFee) (int64, error) {
	id, err := insertExtraFee(ctx, t.tx, fee)
	if err != nil {
		return 0, fmt.Errorf("%w: insert extra fee: %v", shared.ErrPersistence, err)
	}
	return id, nil
}

func (t *txRepo) DeleteExtraFees(ctx context.Context, packageID int64, reference string) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM package_extra_fee WHERE package_id = $1 AND reference = $2`,
		packageID, reference)
	if err != nil {
		return 0, fmt.Errorf("%w: delete extra fees: %v", shared.ErrPersistence, err)
	}
	return tag.RowsAffected(), nil
}

func (t *txRepo) DeletePackage(ctx context.Context, id int64, reference string) error {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM customer_package WHERE id = $1 AND reference = $2`, id, reference)
	if err != nil {
		return fmt.Errorf("%w: delete package: %v", shared.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

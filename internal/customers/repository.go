package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipline/shipline/internal/platform/db"
	"github.com/shipline/shipline/internal/shared"
)

// Repository provides persistence for the customer directory.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	FindByPassportAndName(ctx context.Context, passport, name string) (*Customer, error)
	FindByAccountNo(ctx context.Context, accNo string) (*Customer, error)
	Search(ctx context.Context, term string) ([]Summary, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error
	PasswordHash(ctx context.Context, id int64) (string, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// TxRepository exposes the first-registration writes that must share one
// transaction: sequence bump, customer row, ledger posting.
type TxRepository interface {
	NextPRCode(ctx context.Context) (int64, error)
	InsertCustomer(ctx context.Context, c Customer) (int64, error)
	InsertPosting(ctx context.Context, p Posting) error
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

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
	if err != nil && db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", shared.ErrConflict, err)
	}
	return err
}

const customerColumns = `id, acc_no, name, full_name, address, sl_address, nic,
	phone, mobile, email, city, zipcode, sl_zipcode, passport, passport_photo, prof_pic`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.AccNo, &c.Name, &c.FullName, &c.Address, &c.SLAddress, &c.NIC,
		&c.Phone, &c.Mobile, &c.Email, &c.City, &c.Zipcode, &c.SLZipcode,
		&c.Passport, &c.PassportPhoto, &c.ProfilePhoto,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindByPassportAndName(ctx context.Context, passport, name string) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customer WHERE passport = $1 AND name = $2 LIMIT 1`
	return scanCustomer(r.pool.QueryRow(ctx, query, passport, name))
}

func (r *repository) FindByAccountNo(ctx context.Context, accNo string) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customer WHERE acc_no = $1`
	return scanCustomer(r.pool.QueryRow(ctx, query, accNo))
}

func (r *repository) Search(ctx context.Context, term string) ([]Summary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT full_name, acc_no, address, phone, passport, passport_photo, city, email
		 FROM customer
		 WHERE full_name ILIKE $1 OR name ILIKE $1 OR phone ILIKE $1 OR passport ILIKE $1
		 ORDER BY full_name`,
		"%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("customers: search: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.FullName, &s.AccNo, &s.Address, &s.Phone,
			&s.Passport, &s.PassportPhoto, &s.City, &s.Email); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) UpdateProfile(ctx context.Context, id int64, u ProfileUpdate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customer SET
			full_name = $2, address = $3, passport = $4, phone = $5, city = $6,
			zipcode = $7, email = $8, nic = $9, sl_address = $10, sl_zipcode = $11,
			mobile = $12,
			passport_photo = CASE WHEN $13 <> '' THEN $13 ELSE passport_photo END,
			prof_pic = CASE WHEN $14 <> '' THEN $14 ELSE prof_pic END
		 WHERE id = $1`,
		id, u.FullName, u.Address, u.Passport, u.Phone, u.City, u.Zipcode,
		u.Email, u.NIC, u.SLAddress, u.SLZipcode, u.Mobile, u.PassportPhoto, u.ProfilePhoto)
	if err != nil {
		return fmt.Errorf("%w: update profile: %v", shared.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) PasswordHash(ctx context.Context, id int64) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx,
		`SELECT password_hash FROM customer WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", fmt.Errorf("customers: password hash: %w", err)
	}
	return hash, nil
}

func (r *repository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customer SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("%w: update password: %v", shared.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextPRCode bumps and returns the shared account-number sequence.
func (t *txRepo) NextPRCode(ctx context.Context) (int64, error) {
	var code int64
	err := t.tx.QueryRow(ctx,
		`UPDATE account_sequence SET pr_code = pr_code + 1 WHERE id = 1 RETURNING pr_code`,
	).Scan(&code)
	if err != nil {
		return 0, fmt.Errorf("%w: next pr code: %v", shared.ErrPersistence, err)
	}
	return code, nil
}

func (t *txRepo) InsertCustomer(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO customer
			(acc_no, name, full_name, address, sl_address, nic, phone, mobile,
			 email, city, zipcode, sl_zipcode, passport, passport_photo, prof_pic)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		c.AccNo, c.Name, c.FullName, c.Address, c.SLAddress, c.NIC, c.Phone,
		c.Mobile, c.Email, c.City, c.Zipcode, c.SLZipcode, c.Passport,
		c.PassportPhoto, c.ProfilePhoto,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert customer: %v", shared.ErrPersistence, err)
	}
	return id, nil
}

func (t *txRepo) InsertPosting(ctx context.Context, p Posting) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO account_posting (p_code, p_name, b_code, t_code, h_code, l_code)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.PCode, p.PName, p.BCode, p.TCode, p.HCode, p.LCode)
	if err != nil {
		return fmt.Errorf("%w: insert posting: %v", shared.ErrPersistence, err)
	}
	return nil
}

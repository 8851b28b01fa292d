package pickup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipline/shipline/internal/orders"
	"github.com/shipline/shipline/internal/platform/db"
	"github.com/shipline/shipline/internal/reference"
	"github.com/shipline/shipline/internal/shared"
)

// Repository provides persistence for pickup requests. The confirmed-order
// snapshot insert lives here too so finalize touches both tables in one
// transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByID(ctx context.Context, id int64) (*PickupRequest, error)
	ListOpenDrafts(ctx context.Context, accNo string) ([]PickupRequest, error)
	SearchContacts(ctx context.Context, term string) ([]Contact, error)
	SearchPassports(ctx context.Context, term string) ([]string, error)
}

// TxRepository exposes the writes that share one transaction.
type TxRepository interface {
	IssueReference(ctx context.Context, user, accNo string) (reference.Issued, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*PickupRequest, error)
	Insert(ctx context.Context, p PickupRequest) (int64, error)
	Update(ctx context.Context, p PickupRequest) error
	InsertConfirmedSnapshot(ctx context.Context, o orders.ConfirmedOrder) (int64, error)
	DeleteOrderCascade(ctx context.Context, ref string) error
}

type repository struct {
	pool *pgxpool.Pool
	gen  *reference.Generator
}

type txRepo struct {
	tx  pgx.Tx
	gen *reference.Generator
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool, gen *reference.Generator) Repository {
	return &repository{pool: pool, gen: gen}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx, gen: r.gen})
	})
	if err != nil && db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", shared.ErrConflict, err)
	}
	return err
}

const requestColumns = `id, reference, sender_name, sender_tel, sender_address,
	sender_city, sender_mail, recipient_name, recipient_name2, recipient_contact,
	recipient_address, recipient_city, recipient_passport_no,
	recipient_passport_photo, service_type, d2d, payment_method, box_id,
	rider_id, agent_id, agent_location_id, passport_number, passport_photo,
	postal_code, gift, waybill_id, parcel_type, parcel_des, acc_no,
	created_user, common_status, created_at, updated_at`

func scanRequest(row pgx.Row) (*PickupRequest, error) {
	var p PickupRequest
	err := row.Scan(
		&p.ID, &p.Reference, &p.SenderName, &p.SenderTel, &p.SenderAddress,
		&p.SenderCity, &p.SenderMail, &p.RecipientName, &p.RecipientName2,
		&p.RecipientContact, &p.RecipientAddress, &p.RecipientCity,
		&p.RecipientPassportNo, &p.RecipientPassportPhoto, &p.ServiceType,
		&p.DoorToDoor, &p.PaymentMethod, &p.BoxID, &p.RiderID, &p.AgentID,
		&p.AgentLocationID, &p.PassportNumber, &p.PassportPhoto, &p.PostalCode,
		&p.Gift, &p.WaybillID, &p.ParcelType, &p.ParcelDescription, &p.AccNo,
		&p.CreatedUser, &p.CommonStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*PickupRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pickup_request WHERE id = $1`
	return scanRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) ListOpenDrafts(ctx context.Context, accNo string) ([]PickupRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM pickup_request WHERE acc_no = $1 AND common_status = 0 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, accNo)
	if err != nil {
		return nil, fmt.Errorf("pickup: list drafts: %w", err)
	}
	defer rows.Close()

	var out []PickupRequest
	for rows.Next() {
		p, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repository) SearchContacts(ctx context.Context, term string) ([]Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT sender_tel, passport_number
		 FROM pickup_request WHERE sender_tel ILIKE $1 ORDER BY sender_tel`,
		"%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("pickup: search contacts: %w", err)
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.SenderTel, &c.PassportNumber); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) SearchPassports(ctx context.Context, term string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT passport_number
		 FROM pickup_request
		 WHERE passport_number <> '' AND passport_number ILIKE $1
		 ORDER BY passport_number`,
		"%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("pickup: search passports: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var passport string
		if err := rows.Scan(&passport); err != nil {
			return nil, err
		}
		out = append(out, passport)
	}
	return out, rows.Err()
}

func (t *txRepo) IssueReference(ctx context.Context, user, accNo string) (reference.Issued, error) {
	return t.gen.Issue(ctx, t.tx, user, accNo)
}

func (t *txRepo) GetByIDForUpdate(ctx context.Context, id int64) (*PickupRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM pickup_request WHERE id = $1 FOR UPDATE`
	return scanRequest(t.tx.QueryRow(ctx, query, id))
}

func (t *txRepo) Insert(ctx context.Context, p PickupRequest) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO pickup_request
			(reference, sender_name, sender_tel, sender_address, sender_city,
			 sender_mail, recipient_name, recipient_name2, recipient_contact,
			 recipient_address, recipient_city, recipient_passport_no,
			 recipient_passport_photo, service_type, d2d, payment_method, box_id,
			 rider_id, agent_id, agent_location_id, passport_number,
			 passport_photo, postal_code, gift, waybill_id, parcel_type,
			 parcel_des, acc_no, created_user, common_status, created_at,
			 updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			 $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			 $28, $29, $30, NOW(), NOW())
		 RETURNING id`,
		p.Reference, p.SenderName, p.SenderTel, p.SenderAddress, p.SenderCity,
		p.SenderMail, p.RecipientName, p.RecipientName2, p.RecipientContact,
		p.RecipientAddress, p.RecipientCity, p.RecipientPassportNo,
		p.RecipientPassportPhoto, p.ServiceType, p.DoorToDoor, p.PaymentMethod,
		p.BoxID, p.RiderID, p.AgentID, p.AgentLocationID, p.PassportNumber,
		p.PassportPhoto, p.PostalCode, p.Gift, p.WaybillID, p.ParcelType,
		p.ParcelDescription, p.AccNo, p.CreatedUser, p.CommonStatus,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: insert pickup request: %v", shared.ErrConflict, err)
		}
		return 0, fmt.Errorf("%w: insert pickup request: %v", shared.ErrPersistence, err)
	}
	return id, nil
}

func (t *txRepo) Update(ctx context.Context, p PickupRequest) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE pickup_request SET
			sender_name = $2, sender_tel = $3, sender_address = $4,
			sender_city = $5, sender_mail = $6, recipient_name = $7,
			recipient_name2 = $8, recipient_contact = $9, recipient_address = $10,
			recipient_city = $11, recipient_passport_no = $12,
			recipient_passport_photo = $13, service_type = $14, d2d = $15,
			payment_method = $16, box_id = $17, rider_id = $18, agent_id = $19,
			agent_location_id = $20, passport_number = $21, passport_photo = $22,
			postal_code = $23, gift = $24, common_status = $25, updated_at = NOW()
		 WHERE id = $1`,
		p.ID, p.SenderName, p.SenderTel, p.SenderAddress, p.SenderCity,
		p.SenderMail, p.RecipientName, p.RecipientName2, p.RecipientContact,
		p.RecipientAddress, p.RecipientCity, p.RecipientPassportNo,
		p.RecipientPassportPhoto, p.ServiceType, p.DoorToDoor, p.PaymentMethod,
		p.BoxID, p.RiderID, p.AgentID, p.AgentLocationID, p.PassportNumber,
		p.PassportPhoto, p.PostalCode, p.Gift, p.CommonStatus)
	if err != nil {
		return fmt.Errorf("%w: update pickup request: %v", shared.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// InsertConfirmedSnapshot promotes the request into confirmed_order. The
// unique reference index turns a racing double-finalize into ErrConflict.
func (t *txRepo) InsertConfirmedSnapshot(ctx context.Context, o orders.ConfirmedOrder) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO confirmed_order
			(reference, p_request_id, service_type, d2d, sender_name, sender_tel,
			 sender_address, sender_city, sender_mail, recipient_name,
			 recipient_name2, recipient_contact, recipient_address,
			 recipient_city, recipient_passport_no, recipient_passport_photo,
			 payment_method, box_id, rider_id, passport_number, passport_photo,
			 agent_id, agent_location_id, postal_code, gift, acc_no,
			 created_user, status, cslj_no, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			 $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			 $28, $29, NOW())
		 RETURNING id`,
		o.Reference, o.PickupRequestID, o.ServiceType, o.DoorToDoor,
		o.SenderName, o.SenderTel, o.SenderAddress, o.SenderCity, o.SenderMail,
		o.RecipientName, o.RecipientName2, o.RecipientContact,
		o.RecipientAddress, o.RecipientCity, o.RecipientPassportNo,
		o.RecipientPassportPhoto, o.PaymentMethod, o.BoxID, o.RiderID,
		o.PassportNumber, o.PassportPhoto, o.AgentID, o.AgentLocationID,
		o.PostalCode, o.Gift, o.AccNo, o.CreatedUser, o.Status, o.TrackingNo,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: reference already promoted: %v", shared.ErrConflict, err)
		}
		return 0, fmt.Errorf("%w: insert confirmed order: %v", shared.ErrPersistence, err)
	}
	return id, nil
}

// DeleteOrderCascade removes a draft order and everything hanging off its
// reference.
func (t *txRepo) DeleteOrderCascade(ctx context.Context, ref string) error {
	for _, query := range []string{
		`DELETE FROM package_extra_fee WHERE reference = $1`,
		`DELETE FROM customer_package WHERE reference = $1`,
		`DELETE FROM pickup_request WHERE reference = $1`,
		`DELETE FROM order_reference WHERE reference = $1`,
	} {
		if _, err := t.tx.Exec(ctx, query, ref); err != nil {
			return fmt.Errorf("%w: delete order: %v", shared.ErrPersistence, err)
		}
	}
	return nil
}

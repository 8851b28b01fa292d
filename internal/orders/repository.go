package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipline/shipline/internal/platform/db"
	"github.com/shipline/shipline/internal/shared"
)

// Repository provides persistence for confirmed orders.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByReference(ctx context.Context, reference string) (*ConfirmedOrder, error)
	LastTrackingNo(ctx context.Context) (string, error)
	SearchConsignees(ctx context.Context, accNo, term string) ([]Consignee, error)
}

// TxRepository exposes the accept/reject writes under a row lock.
type TxRepository interface {
	GetByReferenceForUpdate(ctx context.Context, reference string) (*ConfirmedOrder, error)
	TrackingNoInUse(ctx context.Context, trackingNo string, excludeID int64) (bool, error)
	MarkAccepted(ctx context.Context, id int64, trackingNo, riderID string, at time.Time) error
	MarkOfficeConfirmed(ctx context.Context, id int64, trackingNo string, at time.Time) error
	MarkRejected(ctx context.Context, id int64) error
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

const orderColumns = `id, reference, p_request_id, service_type, d2d,
	sender_name, sender_tel, sender_address, sender_city, sender_mail,
	recipient_name, recipient_name2, recipient_contact, recipient_address,
	recipient_city, recipient_passport_no, recipient_passport_photo,
	payment_method, box_id, rider_id, passport_number, passport_photo,
	agent_id, agent_location_id, postal_code, gift, acc_no, created_user,
	status, cslj_no, confirmed_at, wh_handover_at, created_at`

func scanOrder(row pgx.Row) (*ConfirmedOrder, error) {
	var o ConfirmedOrder
	err := row.Scan(
		&o.ID, &o.Reference, &o.PickupRequestID, &o.ServiceType, &o.DoorToDoor,
		&o.SenderName, &o.SenderTel, &o.SenderAddress, &o.SenderCity, &o.SenderMail,
		&o.RecipientName, &o.RecipientName2, &o.RecipientContact, &o.RecipientAddress,
		&o.RecipientCity, &o.RecipientPassportNo, &o.RecipientPassportPhoto,
		&o.PaymentMethod, &o.BoxID, &o.RiderID, &o.PassportNumber, &o.PassportPhoto,
		&o.AgentID, &o.AgentLocationID, &o.PostalCode, &o.Gift, &o.AccNo, &o.CreatedUser,
		&o.Status, &o.TrackingNo, &o.ConfirmedAt, &o.WarehouseAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*ConfirmedOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM confirmed_order WHERE reference = $1`
	return scanOrder(r.pool.QueryRow(ctx, query, reference))
}

func (r *repository) LastTrackingNo(ctx context.Context) (string, error) {
	var trackingNo string
	err := r.pool.QueryRow(ctx,
		`SELECT cslj_no FROM confirmed_order WHERE cslj_no <> '' ORDER BY id DESC LIMIT 1`,
	).Scan(&trackingNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", fmt.Errorf("orders: last tracking no: %w", err)
	}
	return trackingNo, nil
}

func (r *repository) SearchConsignees(ctx context.Context, accNo, term string) ([]Consignee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT recipient_name, recipient_contact, recipient_address,
			recipient_city, postal_code, recipient_passport_no, recipient_passport_photo
		 FROM confirmed_order
		 WHERE acc_no = $1
		   AND (recipient_name ILIKE $2 OR recipient_contact ILIKE $2
		     OR recipient_address ILIKE $2 OR recipient_city ILIKE $2)
		 ORDER BY recipient_name`,
		accNo, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("orders: search consignees: %w", err)
	}
	defer rows.Close()

	var out []Consignee
	for rows.Next() {
		var c Consignee
		if err := rows.Scan(&c.Name, &c.Contact, &c.Address, &c.City,
			&c.PostalCode, &c.PassportNo, &c.PassportPhoto); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (t *txRepo) GetByReferenceForUpdate(ctx context.Context, reference string) (*ConfirmedOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM confirmed_order WHERE reference = $1 FOR UPDATE`
	return scanOrder(t.tx.QueryRow(ctx, query, reference))
}

func (t *txRepo) TrackingNoInUse(ctx context.Context, trackingNo string, excludeID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM confirmed_order WHERE cslj_no = $1 AND id <> $2)`,
		trackingNo, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("orders: tracking lookup: %w", err)
	}
	return exists, nil
}

func (t *txRepo) MarkAccepted(ctx context.Context, id int64, trackingNo, riderID string, at time.Time) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE confirmed_order
		 SET status = $2, cslj_no = $3, rider_id = $4, confirmed_at = $5
		 WHERE id = $1`,
		id, StatusAccepted, trackingNo, riderID, at)
	return mapWriteError(err)
}

func (t *txRepo) MarkOfficeConfirmed(ctx context.Context, id int64, trackingNo string, at time.Time) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE confirmed_order
		 SET status = $2, cslj_no = $3, confirmed_at = $4, wh_handover_at = $4
		 WHERE id = $1`,
		id, StatusOfficeConfirmed, trackingNo, at)
	return mapWriteError(err)
}

func (t *txRepo) MarkRejected(ctx context.Context, id int64) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE confirmed_order SET status = $2 WHERE id = $1`, id, StatusRejected)
	return mapWriteError(err)
}

// mapWriteError surfaces the cslj_no unique index firing under concurrency
// as a conflict the caller can retry.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", shared.ErrConflict, err)
	}
	return fmt.Errorf("%w: %v", shared.ErrPersistence, err)
}

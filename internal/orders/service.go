package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shipline/shipline/internal/shared"
)

// ActivityLog is the slice of the audit trail the lifecycle needs.
type ActivityLog interface {
	Append(ctx context.Context, reference string, status shared.OrderStatus, message string)
}

// AcceptRequest carries the staff accept action.
type AcceptRequest struct {
	Reference   string
	RiderID     string
	TrackingNo  string
	ServiceType string
}

// Service implements the confirmed-order lifecycle.
type Service struct {
	repo     Repository
	activity ActivityLog
	now      func() time.Time
}

// NewService constructs the service.
func NewService(repo Repository, activity ActivityLog) *Service {
	return &Service{repo: repo, activity: activity, now: time.Now}
}

// officeVisit reports whether the service type bypasses rider assignment.
// Anything other than a door-to-door pickup is handled at the office counter.
func officeVisit(serviceType string) bool {
	return serviceType != "" && serviceType != "Door-to-Door Pickup"
}

// Accept transitions a pending order to accepted or office-confirmed. The
// tracking-number check and the status write share one transaction so two
// racing accepts cannot claim the same number.
func (s *Service) Accept(ctx context.Context, req AcceptRequest) error {
	if req.Reference == "" {
		return fmt.Errorf("%w: reference is required", shared.ErrValidation)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		order, err := tx.GetByReferenceForUpdate(ctx, req.Reference)
		if err != nil {
			return err
		}

		if req.TrackingNo != "" {
			used, err := tx.TrackingNoInUse(ctx, req.TrackingNo, order.ID)
			if err != nil {
				return err
			}
			if used {
				return shared.ErrDuplicateTracking
			}
		}

		now := s.now()
		if officeVisit(req.ServiceType) {
			return tx.MarkOfficeConfirmed(ctx, order.ID, req.TrackingNo, now)
		}

		rider := order.RiderID
		if req.RiderID != "" {
			rider = req.RiderID
		}
		if rider == "" {
			return shared.ErrMissingRider
		}
		return tx.MarkAccepted(ctx, order.ID, req.TrackingNo, rider, now)
	})
	if err != nil {
		return err
	}

	s.activity.Append(ctx, req.Reference, shared.StatusOrderConfirmed,
		"Order with ref: "+req.Reference+" confirmed successfully.")
	return nil
}

// Reject flags an order rejected. Unconditional once the row is found; the
// model does not prevent a later re-accept.
func (s *Service) Reject(ctx context.Context, reference string) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		order, err := tx.GetByReferenceForUpdate(ctx, reference)
		if err != nil {
			return err
		}
		return tx.MarkRejected(ctx, order.ID)
	})
	if err != nil {
		return err
	}

	s.activity.Append(ctx, reference, shared.StatusOrderRejected,
		"Order rejected with: "+reference)
	return nil
}

// LastTrackingNo returns the most recently assigned tracking number.
func (s *Service) LastTrackingNo(ctx context.Context) (string, error) {
	return s.repo.LastTrackingNo(ctx)
}

// SearchConsignees lists the calling account's previous recipients matching
// the term.
func (s *Service) SearchConsignees(ctx context.Context, accNo, term string) ([]Consignee, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", shared.ErrValidation)
	}
	return s.repo.SearchConsignees(ctx, accNo, term)
}

package pickup

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shipline/shipline/internal/catalog"
	"github.com/shipline/shipline/internal/pricing"
	"github.com/shipline/shipline/internal/shared"
)

// ActivityLog is the slice of the audit trail the lifecycle needs.
type ActivityLog interface {
	Append(ctx context.Context, reference string, status shared.OrderStatus, message string)
}

// CustomerRegistrar registers first-time senders during finalize. Existing
// customers (same passport and name) are left untouched.
type CustomerRegistrar interface {
	EnsureCustomer(ctx context.Context, passport, name, address, tel string) error
}

// BoxCreator inserts one-off custom box sizes created during guest intake.
type BoxCreator interface {
	InsertCustom(ctx context.Context, b catalog.Box) (int64, error)
}

// Service implements the pickup-request lifecycle.
type Service struct {
	repo      Repository
	activity  ActivityLog
	registrar CustomerRegistrar
	boxes     BoxCreator
}

// NewService constructs the service.
func NewService(repo Repository, activity ActivityLog, registrar CustomerRegistrar, boxes BoxCreator) *Service {
	return &Service{repo: repo, activity: activity, registrar: registrar, boxes: boxes}
}

// apply overwrites the mutable draft fields from the form. Reference, account
// ownership and status are managed by the lifecycle, not the form.
func (p *PickupRequest) apply(form IntakeForm) {
	p.SenderName = form.SenderName
	p.SenderTel = form.SenderTel
	p.SenderAddress = form.SenderAddress
	p.SenderCity = form.SenderCity
	p.SenderMail = form.SenderMail
	p.RecipientName = form.RecipientName
	p.RecipientName2 = form.RecipientName2
	p.RecipientContact = form.RecipientContact
	p.RecipientAddress = form.RecipientAddress
	p.RecipientCity = form.RecipientCity
	p.RecipientPassportNo = form.RecipientPassportNo
	p.RecipientPassportPhoto = form.RecipientPassportPhoto
	p.ServiceType = form.ServiceType
	p.DoorToDoor = form.ServiceType == "Door-to-Door Pickup"
	p.PaymentMethod = form.PaymentMethod
	p.BoxID = form.BoxID
	p.RiderID = form.RiderID
	p.AgentID = form.AgentID
	p.AgentLocationID = form.AgentLocationID
	p.PassportNumber = form.PassportNumber
	p.PassportPhoto = form.PassportPhoto
	p.PostalCode = form.PostalCode
	p.Gift = form.Gift
}

// Save creates a draft or overwrites an existing one by id. The draft keeps
// common_status 0 so the client can keep adding packages before finalizing.
func (s *Service) Save(ctx context.Context, identity shared.Identity, form IntakeForm) (SaveResult, error) {
	var result SaveResult
	var created bool

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if form.ID != 0 {
			existing, err := tx.GetByIDForUpdate(ctx, form.ID)
			if err != nil {
				return err
			}
			existing.apply(form)
			if err := tx.Update(ctx, *existing); err != nil {
				return err
			}
			result = SaveResult{ID: existing.ID, Reference: existing.Reference}
			return nil
		}

		issued, err := tx.IssueReference(ctx, identity.Username, identity.AccountNo)
		if err != nil {
			return err
		}

		var p PickupRequest
		p.apply(form)
		p.Reference = issued.Reference
		p.AccNo = identity.AccountNo
		p.CreatedUser = identity.Username
		p.CommonStatus = CommonStatusDraft

		id, err := tx.Insert(ctx, p)
		if err != nil {
			return err
		}
		result = SaveResult{ID: id, Reference: issued.Reference}
		created = true
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	if created {
		s.activity.Append(ctx, result.Reference, shared.StatusPickupRequestOpened,
			"Pickup request opened for order: "+result.Reference)
	}
	return result, nil
}

// Finalize commits a draft into the confirmed-order pipeline. The status flip
// and the snapshot insert share one transaction; the unique reference index
// on confirmed_order turns a racing double-finalize into ErrConflict.
func (s *Service) Finalize(ctx context.Context, identity shared.Identity, form IntakeForm) (SaveResult, error) {
	if s.registrar != nil && form.SenderName != "" {
		if err := s.registrar.EnsureCustomer(ctx,
			form.PassportNumber, form.SenderName, form.SenderAddress, form.SenderTel); err != nil {
			return SaveResult{}, fmt.Errorf("register customer: %w", err)
		}
	}

	var result SaveResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var p *PickupRequest

		if form.ID != 0 {
			existing, err := tx.GetByIDForUpdate(ctx, form.ID)
			if err != nil {
				return err
			}
			if existing.CommonStatus == CommonStatusFinalized {
				return fmt.Errorf("%w: request %d already finalized", shared.ErrConflict, form.ID)
			}
			existing.apply(form)
			existing.CommonStatus = CommonStatusFinalized
			if err := tx.Update(ctx, *existing); err != nil {
				return err
			}
			p = existing
		} else {
			issued, err := tx.IssueReference(ctx, identity.Username, identity.AccountNo)
			if err != nil {
				return err
			}
			fresh := PickupRequest{}
			fresh.apply(form)
			fresh.Reference = issued.Reference
			fresh.AccNo = identity.AccountNo
			fresh.CreatedUser = identity.Username
			fresh.CommonStatus = CommonStatusFinalized

			id, err := tx.Insert(ctx, fresh)
			if err != nil {
				return err
			}
			fresh.ID = id
			p = &fresh
		}

		if _, err := tx.InsertConfirmedSnapshot(ctx, p.snapshot(form.TrackingNo)); err != nil {
			return err
		}
		result = SaveResult{ID: p.ID, Reference: p.Reference}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	s.activity.Append(ctx, result.Reference, shared.StatusPickupRequestFinalized,
		"Pickup request finalized for order: "+result.Reference)
	return result, nil
}

// GuestIntake stores a walk-in submission as a draft. A "custom" box size
// creates a one-off catalog entry first.
func (s *Service) GuestIntake(ctx context.Context, identity shared.Identity, req GuestIntakeRequest) (SaveResult, error) {
	boxID, err := s.resolveBox(ctx, req)
	if err != nil {
		return SaveResult{}, err
	}

	var result SaveResult
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		issued, err := tx.IssueReference(ctx, identity.Username, identity.AccountNo)
		if err != nil {
			return err
		}

		p := PickupRequest{
			Reference:         issued.Reference,
			SenderName:        req.SenderName,
			SenderTel:         req.SenderContact,
			SenderAddress:     req.SenderAddress,
			SenderCity:        req.SenderCity,
			SenderMail:        req.SenderEmail,
			RecipientName:     req.RecipientName,
			RecipientContact:  req.RecipientContact,
			RecipientAddress:  req.RecipientAddress,
			RecipientCity:     req.RecipientCity,
			PaymentMethod:     req.PaymentMethod,
			BoxID:             boxID,
			PassportNumber:    req.PassportNumber,
			PassportPhoto:     req.PassportPhoto,
			WaybillID:         req.WaybillID,
			ParcelType:        req.ParcelType,
			ParcelDescription: req.Description,
			AccNo:             identity.AccountNo,
			CreatedUser:       identity.Username,
			CommonStatus:      CommonStatusDraft,
		}

		id, err := tx.Insert(ctx, p)
		if err != nil {
			return err
		}
		result = SaveResult{ID: id, Reference: issued.Reference}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	s.activity.Append(ctx, result.Reference, shared.StatusPickupRequestOpened,
		"Pickup request opened for order: "+result.Reference)
	return result, nil
}

func (s *Service) resolveBox(ctx context.Context, req GuestIntakeRequest) (int64, error) {
	if req.BoxSize != "custom" {
		id, err := strconv.ParseInt(req.BoxSize, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid box size %q", shared.ErrValidation, req.BoxSize)
		}
		return id, nil
	}

	return s.boxes.InsertCustom(ctx, catalog.Box{
		Description: "Custom Box Size",
		Width:       req.CustomWidth,
		Height:      req.CustomHeight,
		Length:      req.CustomLength,
		Volume:      pricing.Volume(req.CustomWidth, req.CustomHeight, req.CustomLength),
		Price:       req.CustomPrice,
		CustomSize:  true,
	})
}

// Resume loads a draft by id for cross-session editing.
func (s *Service) Resume(ctx context.Context, id int64) (*PickupRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// OpenDrafts lists the calling account's unfinalized requests.
func (s *Service) OpenDrafts(ctx context.Context, accNo string) ([]PickupRequest, error) {
	return s.repo.ListOpenDrafts(ctx, accNo)
}

// SearchContacts matches previous sender contact numbers.
func (s *Service) SearchContacts(ctx context.Context, term string) ([]Contact, error) {
	return s.repo.SearchContacts(ctx, term)
}

// SearchPassports matches previous sender passport numbers.
func (s *Service) SearchPassports(ctx context.Context, term string) ([]string, error) {
	return s.repo.SearchPassports(ctx, term)
}

// DeleteOrder removes a draft and its packages, fees and reference in one
// transaction.
func (s *Service) DeleteOrder(ctx context.Context, ref string) error {
	if ref == "" {
		return fmt.Errorf("%w: reference is required", shared.ErrValidation)
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteOrderCascade(ctx, ref)
	})
}

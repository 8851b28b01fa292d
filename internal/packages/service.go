package packages

import (
	"context"
	"errors"
	"fmt"

	"github.com/shipline/shipline/internal/catalog"
	"github.com/shipline/shipline/internal/pricing"
	"github.com/shipline/shipline/internal/shared"
)

// BoxCatalog is the slice of the box catalog the ledger needs.
type BoxCatalog interface {
	GetByID(ctx context.Context, id int64) (*catalog.Box, error)
}

// DeleteResult reports the two cascade steps independently.
type DeleteResult struct {
	FeesRemoved    int64 `json:"fees_removed"`
	PackageRemoved bool  `json:"package_removed"`
}

// Service implements the package ledger.
type Service struct {
	repo  Repository
	boxes BoxCatalog
}

// NewService constructs the service.
func NewService(repo Repository, boxes BoxCatalog) *Service {
	return &Service{repo: repo, boxes: boxes}
}

// AddPackage stores one line item. Custom dimensions take precedence when the
// custom-size flag is set; a custom package also records its extra fee in the
// same transaction.
func (s *Service) AddPackage(ctx context.Context, req AddPackageRequest) (int64, error) {
	p := Package{
		Reference:   req.Reference,
		PackageType: req.PackageType,
		Description: req.Description,
		ChassisNo:   req.ChassisNo,
		EngineNo:    req.EngineNo,
		CustomSize:  req.CustomSize,
	}

	if req.CustomSize {
		p.BoxID = 0
		p.Width = req.CustomWidth
		p.Height = req.CustomHeight
		p.Length = req.CustomLength
		p.Weight = req.CustomWeight
		p.Price = req.CustomPrice
		p.Volume = pricing.Volume(req.CustomWidth, req.CustomHeight, req.CustomLength)
	} else {
		p.BoxID = req.BoxID
		p.Width = req.Width
		p.Height = req.Height
		p.Length = req.Length
		p.Weight = req.Weight
		p.Price = req.Price
		p.Volume = pricing.Volume(req.Width, req.Height, req.Length)
	}

	var packageID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertPackage(ctx, p)
		if err != nil {
			return err
		}
		packageID = id

		if req.CustomSize {
			if _, err := tx.InsertExtraFee(ctx, ExtraFee{
				Reference:   req.Reference,
				PackageID:   id,
				Description: "Extra weight fee",
				Amount:      req.ExtraFee,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return packageID, nil
}

// ListPackages returns the line items for a reference, with box dimensions
// and volume overlaid from the catalog for non-custom packages. Stored values
// may be stale; the catalog is authoritative at read time. An empty reference
// result is not an error.
func (s *Service) ListPackages(ctx context.Context, reference string) ([]Package, error) {
	list, err := s.repo.ListByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	for i := range list {
		p := &list[i]
		if p.CustomSize || p.BoxID == 0 {
			continue
		}
		box, err := s.boxes.GetByID(ctx, p.BoxID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("overlay box %d: %w", p.BoxID, err)
		}
		p.Width = box.Width
		p.Height = box.Height
		p.Length = box.Length
		p.Volume = box.Volume
	}
	return list, nil
}

// DeletePackage removes a package and all its extra fees. The fee deletion
// happens first so a mid-flight failure never orphans fees.
func (s *Service) DeletePackage(ctx context.Context, packageID int64, reference string) (DeleteResult, error) {
	var result DeleteResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		removed, err := tx.DeleteExtraFees(ctx, packageID, reference)
		if err != nil {
			return err
		}
		result.FeesRemoved = removed

		if err := tx.DeletePackage(ctx, packageID, reference); err != nil {
			return err
		}
		result.PackageRemoved = true
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}

// PaymentTotal sums package prices and extra fees over a reference.
func (s *Service) PaymentTotal(ctx context.Context, reference string) (PaymentTotals, error) {
	price, err := s.repo.SumPrice(ctx, reference)
	if err != nil {
		return PaymentTotals{}, err
	}
	fees, err := s.repo.SumExtraFees(ctx, reference)
	if err != nil {
		return PaymentTotals{}, err
	}
	return PaymentTotals{Price: price, ExtraFee: fees}, nil
}

// AddExtraFee attaches a surcharge to an existing package.
func (s *Service) AddExtraFee(ctx context.Context, req AddExtraFeeRequest) (int64, error) {
	if _, err := s.repo.GetPackage(ctx, req.PackageID); err != nil {
		return 0, err
	}
	return s.repo.InsertExtraFee(ctx, ExtraFee{
		Reference:   req.Reference,
		PackageID:   req.PackageID,
		Description: req.Description,
		Amount:      req.Amount,
	})
}

// UpdateExtraFee adjusts a surcharge and re-records the weight on its
// package when that package still exists.
func (s *Service) UpdateExtraFee(ctx context.Context, req UpdateExtraFeeRequest) error {
	if err := s.repo.UpdateExtraFee(ctx, req.ID, req.Description, req.Amount); err != nil {
		return err
	}
	if _, err := s.repo.GetPackage(ctx, req.PackageID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.repo.UpdatePackageWeight(ctx, req.PackageID, req.Weight)
}

// ListExtraFees returns the surcharges recorded for a reference.
func (s *Service) ListExtraFees(ctx context.Context, reference string) ([]ExtraFee, error) {
	return s.repo.ListExtraFees(ctx, reference)
}

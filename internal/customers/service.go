package customers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/shipline/shipline/internal/shared"
	"github.com/shipline/shipline/internal/storage"
)

// Account-posting constants for the customer receivables path. An allocated
// account number reads 1-2-5-<code>.
const (
	postingBCode = 1
	postingTCode = 2
	postingHCode = 5
)

// Service implements the customer directory.
type Service struct {
	repo  Repository
	files storage.Store
}

// NewService constructs the service.
func NewService(repo Repository, files storage.Store) *Service {
	return &Service{repo: repo, files: files}
}

// EnsureCustomer registers a first-time sender. Dedup is by passport and
// name; an existing match is left untouched. Registration allocates the next
// account number and writes exactly one ledger posting alongside the row.
func (s *Service) EnsureCustomer(ctx context.Context, passport, name, address, tel string) error {
	_, err := s.repo.FindByPassportAndName(ctx, passport, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		code, err := tx.NextPRCode(ctx)
		if err != nil {
			return err
		}
		accNo := "1-2-5-" + strconv.FormatInt(code, 10)

		if _, err := tx.InsertCustomer(ctx, Customer{
			AccNo:    accNo,
			Name:     name,
			FullName: name,
			Address:  address,
			Phone:    tel,
			Mobile:   tel,
			Passport: passport,
		}); err != nil {
			return err
		}

		return tx.InsertPosting(ctx, Posting{
			PCode: code,
			PName: name,
			BCode: postingBCode,
			TCode: postingTCode,
			HCode: postingHCode,
			LCode: accNo,
		})
	})
}

// Search matches customers by name, phone or passport.
func (s *Service) Search(ctx context.Context, term string) ([]Summary, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", shared.ErrValidation)
	}
	return s.repo.Search(ctx, term)
}

// Me returns the calling customer's directory row.
func (s *Service) Me(ctx context.Context, identity shared.Identity) (*Customer, error) {
	if !identity.IsCustomer {
		return nil, fmt.Errorf("%w: not a customer", shared.ErrValidation)
	}
	return s.repo.FindByAccountNo(ctx, identity.AccountNo)
}

// PassportPhotoResult is the base64 retrieval payload.
type PassportPhotoResult struct {
	PassportNumber string `json:"passport_number"`
	PhotoDataURI   string `json:"passport_photo_base64"`
}

// PassportPhoto returns the caller's stored passport image as a data URI.
func (s *Service) PassportPhoto(ctx context.Context, accNo string) (PassportPhotoResult, error) {
	if accNo == "" {
		return PassportPhotoResult{}, fmt.Errorf("%w: account number is required", shared.ErrValidation)
	}

	customer, err := s.repo.FindByAccountNo(ctx, accNo)
	if err != nil {
		return PassportPhotoResult{}, err
	}
	if customer.PassportPhoto == "" {
		return PassportPhotoResult{}, fmt.Errorf("%w: no passport photo on file", shared.ErrNotFound)
	}

	blob, mimeType, err := s.files.Open(ctx, customer.PassportPhoto)
	if err != nil {
		return PassportPhotoResult{}, err
	}
	defer blob.Close()

	raw, err := io.ReadAll(blob)
	if err != nil {
		return PassportPhotoResult{}, fmt.Errorf("read passport photo: %w", err)
	}

	return PassportPhotoResult{
		PassportNumber: customer.Passport,
		PhotoDataURI:   "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// UpdateProfile overwrites the caller's editable fields. Empty photo tokens
// leave the stored ones in place.
func (s *Service) UpdateProfile(ctx context.Context, identity shared.Identity, update ProfileUpdate) error {
	if identity.CustomerID == 0 {
		return fmt.Errorf("%w: not a customer", shared.ErrValidation)
	}
	return s.repo.UpdateProfile(ctx, identity.CustomerID, update)
}

// ChangePassword verifies the current password and stores a fresh bcrypt
// hash of the new one.
func (s *Service) ChangePassword(ctx context.Context, identity shared.Identity, current, next, confirm string) error {
	if identity.CustomerID == 0 {
		return fmt.Errorf("%w: not a customer", shared.ErrValidation)
	}
	if next != confirm {
		return fmt.Errorf("%w: new password and confirm password are not same", shared.ErrValidation)
	}

	hash, err := s.repo.PasswordHash(ctx, identity.CustomerID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)) != nil {
		return fmt.Errorf("%w: current password is incorrect", shared.ErrValidation)
	}

	fresh, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, identity.CustomerID, string(fresh))
}

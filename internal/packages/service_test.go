package packages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipline/shipline/internal/catalog"
	"github.com/shipline/shipline/internal/shared"
)

type mockRepository struct {
	packages      map[int64]*Package
	fees          map[int64]*ExtraFee
	nextPackageID int64
	nextFeeID     int64
	insertErr     error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		packages:      make(map[int64]*Package),
		fees:          make(map[int64]*ExtraFee),
		nextPackageID: 1,
		nextFeeID:     1,
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) InsertPackage(_ context.Context, p Package) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	p.ID = m.nextPackageID
	m.packages[p.ID] = &p
	m.nextPackageID++
	return p.ID, nil
}

func (m *mockRepository) InsertExtraFee(_ context.Context, fee ExtraFee) (int64, error) {
	fee.ID = m.nextFeeID
	m.fees[fee.ID] = &fee
	m.nextFeeID++
	return fee.ID, nil
}

func (m *mockRepository) DeleteExtraFees(_ context.Context, packageID int64, reference string) (int64, error) {
	var removed int64
	for id, fee := range m.fees {
		if fee.PackageID == packageID && fee.Reference == reference {
			delete(m.fees, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockRepository) DeletePackage(_ context.Context, id int64, reference string) error {
	p, ok := m.packages[id]
	if !ok || p.Reference != reference {
		return shared.ErrNotFound
	}
	delete(m.packages, id)
	return nil
}

func (m *mockRepository) GetPackage(_ context.Context, id int64) (*Package, error) {
	p, ok := m.packages[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockRepository) ListByReference(_ context.Context, reference string) ([]Package, error) {
	var out []Package
	for id := int64(1); id < m.nextPackageID; id++ {
		if p, ok := m.packages[id]; ok && p.Reference == reference {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepository) ListExtraFees(_ context.Context, reference string) ([]ExtraFee, error) {
	var out []ExtraFee
	for id := int64(1); id < m.nextFeeID; id++ {
		if f, ok := m.fees[id]; ok && f.Reference == reference {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *mockRepository) SumPrice(_ context.Context, reference string) (float64, error) {
	var total float64
	for _, p := range m.packages {
		if p.Reference == reference {
			total += p.Price
		}
	}
	return total, nil
}

func (m *mockRepository) SumExtraFees(_ context.Context, reference string) (float64, error) {
	var total float64
	for _, f := range m.fees {
		if f.Reference == reference {
			total += f.Amount
		}
	}
	return total, nil
}

func (m *mockRepository) UpdateExtraFee(_ context.Context, id int64, description string, amount float64) error {
	f, ok := m.fees[id]
	if !ok {
		return shared.ErrNotFound
	}
	f.Description = description
	f.Amount = amount
	return nil
}

func (m *mockRepository) UpdatePackageWeight(_ context.Context, id int64, weight float64) error {
	p, ok := m.packages[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Weight = weight
	return nil
}

type mockCatalog struct {
	boxes map[int64]*catalog.Box
}

func (m *mockCatalog) GetByID(_ context.Context, id int64) (*catalog.Box, error) {
	box, ok := m.boxes[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return box, nil
}

func newService() (*Service, *mockRepository, *mockCatalog) {
	repo := newMockRepository()
	boxes := &mockCatalog{boxes: map[int64]*catalog.Box{
		3: {ID: 3, Width: 10, Height: 10, Length: 10, Volume: 1000, Price: 15.00},
	}}
	return NewService(repo, boxes), repo, boxes
}

func TestAddPackageCustomSizeRecordsExtraFee(t *testing.T) {
	svc, repo, _ := newService()

	id, err := svc.AddPackage(context.Background(), AddPackageRequest{
		Reference:    "REF100",
		PackageType:  "General",
		CustomSize:   true,
		CustomWidth:  20,
		CustomHeight: 10,
		CustomLength: 5,
		CustomWeight: 12,
		CustomPrice:  9000,
		ExtraFee:     1500,
	})
	require.NoError(t, err)

	p := repo.packages[id]
	require.NotNil(t, p)
	assert.Equal(t, int64(0), p.BoxID)
	assert.Equal(t, 1000.0, p.Volume)
	assert.Equal(t, 9000.0, p.Price)

	fees, err := svc.ListExtraFees(context.Background(), "REF100")
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, id, fees[0].PackageID)
	assert.Equal(t, 1500.0, fees[0].Amount)
	assert.Equal(t, "Extra weight fee", fees[0].Description)
}

func TestAddPackagePredefinedBoxUsesBoxPricing(t *testing.T) {
	svc, repo, _ := newService()

	id, err := svc.AddPackage(context.Background(), AddPackageRequest{
		Reference:   "REF100",
		PackageType: "General",
		BoxID:       3,
		Price:       15.00,
		Weight:      4,
	})
	require.NoError(t, err)

	p := repo.packages[id]
	require.NotNil(t, p)
	assert.Equal(t, int64(3), p.BoxID)
	assert.False(t, p.CustomSize)
	assert.Empty(t, repo.fees)
}

func TestAddPackageInsertFailure(t *testing.T) {
	svc, repo, _ := newService()
	repo.insertErr = shared.ErrPersistence

	_, err := svc.AddPackage(context.Background(), AddPackageRequest{Reference: "REF100"})
	require.ErrorIs(t, err, shared.ErrPersistence)
}

func TestListPackagesOverlaysBoxCatalog(t *testing.T) {
	svc, repo, _ := newService()

	// Stored row has stale zero dimensions; box 3 is authoritative.
	repo.packages[1] = &Package{ID: 1, Reference: "REF100", BoxID: 3, Price: 15.00}
	repo.nextPackageID = 2

	list, err := svc.ListPackages(context.Background(), "REF100")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 10.0, list[0].Width)
	assert.Equal(t, 10.0, list[0].Height)
	assert.Equal(t, 10.0, list[0].Length)
	assert.Equal(t, 1000.0, list[0].Volume)
	assert.Equal(t, 15.00, list[0].Price)
}

func TestListPackagesSkipsOverlayForCustomAndUnknownBoxes(t *testing.T) {
	svc, repo, _ := newService()

	repo.packages[1] = &Package{ID: 1, Reference: "REF100", CustomSize: true, Width: 7, Volume: 343}
	repo.packages[2] = &Package{ID: 2, Reference: "REF100", BoxID: 99, Volume: 5}
	repo.nextPackageID = 3

	list, err := svc.ListPackages(context.Background(), "REF100")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 343.0, list[0].Volume)
	assert.Equal(t, 5.0, list[1].Volume)
}

func TestListPackagesEmptyReferenceIsNotAnError(t *testing.T) {
	svc, _, _ := newService()
	list, err := svc.ListPackages(context.Background(), "UNKNOWN")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeletePackageCascadesAndShrinksTotals(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	customID, err := svc.AddPackage(ctx, AddPackageRequest{
		Reference: "REF100", CustomSize: true,
		CustomWidth: 1, CustomHeight: 1, CustomLength: 1,
		CustomPrice: 5000, ExtraFee: 800,
	})
	require.NoError(t, err)
	_, err = svc.AddPackage(ctx, AddPackageRequest{Reference: "REF100", BoxID: 3, Price: 15.00})
	require.NoError(t, err)

	before, err := svc.PaymentTotal(ctx, "REF100")
	require.NoError(t, err)
	assert.Equal(t, 5015.0, before.Price)
	assert.Equal(t, 800.0, before.ExtraFee)

	result, err := svc.DeletePackage(ctx, customID, "REF100")
	require.NoError(t, err)
	assert.True(t, result.PackageRemoved)
	assert.Equal(t, int64(1), result.FeesRemoved)

	list, err := svc.ListPackages(ctx, "REF100")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEqual(t, customID, list[0].ID)

	after, err := svc.PaymentTotal(ctx, "REF100")
	require.NoError(t, err)
	assert.Equal(t, 15.0, after.Price)
	assert.Equal(t, 0.0, after.ExtraFee)
}

func TestDeletePackageMissing(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.DeletePackage(context.Background(), 42, "REF100")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPaymentTotalDefaultsToZero(t *testing.T) {
	svc, _, _ := newService()
	totals, err := svc.PaymentTotal(context.Background(), "EMPTY")
	require.NoError(t, err)
	assert.Equal(t, 0.0, totals.Price)
	assert.Equal(t, 0.0, totals.ExtraFee)
}

func TestUpdateExtraFeeAlsoUpdatesPackageWeight(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	pkgID, err := svc.AddPackage(ctx, AddPackageRequest{Reference: "REF100", BoxID: 3, Weight: 4})
	require.NoError(t, err)
	feeID, err := svc.AddExtraFee(ctx, AddExtraFeeRequest{
		Reference: "REF100", PackageID: pkgID, Description: "Fragile handling", Amount: 600,
	})
	require.NoError(t, err)

	err = svc.UpdateExtraFee(ctx, UpdateExtraFeeRequest{
		ID: feeID, PackageID: pkgID, Description: "Fragile handling", Weight: 9, Amount: 750,
	})
	require.NoError(t, err)

	assert.Equal(t, 750.0, repo.fees[feeID].Amount)
	assert.Equal(t, 9.0, repo.packages[pkgID].Weight)
}

func TestAddExtraFeeRequiresExistingPackage(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.AddExtraFee(context.Background(), AddExtraFeeRequest{
		Reference: "REF100", PackageID: 9, Description: "x", Amount: 10,
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

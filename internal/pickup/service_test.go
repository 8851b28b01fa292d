package pickup

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipline/shipline/internal/catalog"
	"github.com/shipline/shipline/internal/orders"
	"github.com/shipline/shipline/internal/reference"
	"github.com/shipline/shipline/internal/shared"
)

type mockRepository struct {
	requests  map[int64]*PickupRequest
	snapshots []orders.ConfirmedOrder
	deleted   []string
	nextID    int64
	issued    int
	issueErr  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{requests: make(map[int64]*PickupRequest), nextID: 1}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) IssueReference(_ context.Context, _, _ string) (reference.Issued, error) {
	if m.issueErr != nil {
		return reference.Issued{}, m.issueErr
	}
	m.issued++
	return reference.Issued{
		ID:        int64(m.issued),
		Reference: fmt.Sprintf("PR-250601-%04d", m.issued),
	}, nil
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*PickupRequest, error) {
	p, ok := m.requests[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockRepository) GetByIDForUpdate(ctx context.Context, id int64) (*PickupRequest, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepository) Insert(_ context.Context, p PickupRequest) (int64, error) {
	p.ID = m.nextID
	m.requests[p.ID] = &p
	m.nextID++
	return p.ID, nil
}

func (m *mockRepository) Update(_ context.Context, p PickupRequest) error {
	if _, ok := m.requests[p.ID]; !ok {
		return shared.ErrNotFound
	}
	m.requests[p.ID] = &p
	return nil
}

func (m *mockRepository) InsertConfirmedSnapshot(_ context.Context, o orders.ConfirmedOrder) (int64, error) {
	for _, existing := range m.snapshots {
		if existing.Reference == o.Reference {
			return 0, shared.ErrConflict
		}
	}
	m.snapshots = append(m.snapshots, o)
	return int64(len(m.snapshots)), nil
}

func (m *mockRepository) DeleteOrderCascade(_ context.Context, ref string) error {
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *mockRepository) ListOpenDrafts(_ context.Context, accNo string) ([]PickupRequest, error) {
	var out []PickupRequest
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.requests[id]; ok && p.AccNo == accNo && p.CommonStatus == CommonStatusDraft {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepository) SearchContacts(_ context.Context, term string) ([]Contact, error) {
	return nil, nil
}

func (m *mockRepository) SearchPassports(_ context.Context, term string) ([]string, error) {
	return nil, nil
}

type mockActivity struct {
	appends []shared.OrderStatus
}

func (m *mockActivity) Append(_ context.Context, _ string, status shared.OrderStatus, _ string) {
	m.appends = append(m.appends, status)
}

type mockRegistrar struct {
	calls int
	err   error
}

func (m *mockRegistrar) EnsureCustomer(_ context.Context, _, _, _, _ string) error {
	m.calls++
	return m.err
}

type mockBoxCreator struct {
	inserted []catalog.Box
}

func (m *mockBoxCreator) InsertCustom(_ context.Context, b catalog.Box) (int64, error) {
	m.inserted = append(m.inserted, b)
	return int64(100 + len(m.inserted)), nil
}

func newService() (*Service, *mockRepository, *mockActivity, *mockRegistrar, *mockBoxCreator) {
	repo := newMockRepository()
	activity := &mockActivity{}
	registrar := &mockRegistrar{}
	boxes := &mockBoxCreator{}
	return NewService(repo, activity, registrar, boxes), repo, activity, registrar, boxes
}

var staffIdentity = shared.Identity{Username: "agent01", AccountNo: "1-2-5-0042"}

func validForm() IntakeForm {
	return IntakeForm{
		SenderName:       "Kasun Perera",
		SenderTel:        "0771234567",
		SenderAddress:    "12 Galle Rd",
		SenderCity:       "Colombo",
		RecipientName:    "Nimal Silva",
		RecipientContact: "0712345678",
		RecipientAddress: "5 Kandy Rd",
		RecipientCity:    "Kandy",
		ServiceType:      "Door-to-Door Pickup",
		PaymentMethod:    "Cash",
		BoxID:            3,
		PassportNumber:   "N1234567",
	}
}

func TestSaveMintsReferenceForNewDraft(t *testing.T) {
	svc, repo, activity, _, _ := newService()

	result, err := svc.Save(context.Background(), staffIdentity, validForm())
	require.NoError(t, err)
	assert.Equal(t, "PR-250601-0001", result.Reference)

	p := repo.requests[result.ID]
	require.NotNil(t, p)
	assert.Equal(t, CommonStatusDraft, p.CommonStatus)
	assert.Equal(t, "1-2-5-0042", p.AccNo)
	assert.Equal(t, "agent01", p.CreatedUser)
	assert.True(t, p.DoorToDoor)

	require.Len(t, activity.appends, 1)
	assert.Equal(t, shared.StatusPickupRequestOpened, activity.appends[0])
}

func TestSaveByIDOverwritesWithoutMinting(t *testing.T) {
	svc, repo, activity, _, _ := newService()

	first, err := svc.Save(context.Background(), staffIdentity, validForm())
	require.NoError(t, err)

	updated := validForm()
	updated.ID = first.ID
	updated.RecipientCity = "Galle"
	second, err := svc.Save(context.Background(), staffIdentity, updated)
	require.NoError(t, err)

	assert.Equal(t, first.Reference, second.Reference)
	assert.Equal(t, 1, repo.issued)
	assert.Equal(t, "Galle", repo.requests[first.ID].RecipientCity)
	assert.Equal(t, CommonStatusDraft, repo.requests[first.ID].CommonStatus)

	// Only the initial open is logged; resaves are silent.
	assert.Len(t, activity.appends, 1)
}

func TestSaveUnknownIDFails(t *testing.T) {
	svc, repo, _, _, _ := newService()

	form := validForm()
	form.ID = 99
	_, err := svc.Save(context.Background(), staffIdentity, form)
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Zero(t, repo.issued)
}

func TestSaveAbortsOnAllocationFailure(t *testing.T) {
	svc, repo, activity, _, _ := newService()
	repo.issueErr = shared.ErrAllocation

	_, err := svc.Save(context.Background(), staffIdentity, validForm())
	require.ErrorIs(t, err, shared.ErrAllocation)
	assert.Empty(t, repo.requests)
	assert.Empty(t, activity.appends)
}

func TestFinalizeByIDSnapshotsTheDraft(t *testing.T) {
	svc, repo, activity, registrar, _ := newService()

	draft, err := svc.Save(context.Background(), staffIdentity, validForm())
	require.NoError(t, err)

	form := validForm()
	form.ID = draft.ID
	form.RiderID = "R7"
	form.TrackingNo = "CSLJ100"
	result, err := svc.Finalize(context.Background(), staffIdentity, form)
	require.NoError(t, err)
	assert.Equal(t, draft.Reference, result.Reference)

	assert.Equal(t, CommonStatusFinalized, repo.requests[draft.ID].CommonStatus)
	assert.Equal(t, 1, repo.issued)
	assert.Equal(t, 1, registrar.calls)

	require.Len(t, repo.snapshots, 1)
	snap := repo.snapshots[0]
	assert.Equal(t, draft.Reference, snap.Reference)
	assert.Equal(t, draft.ID, snap.PickupRequestID)
	assert.Equal(t, orders.StatusPending, snap.Status)
	assert.Equal(t, "CSLJ100", snap.TrackingNo)
	assert.Equal(t, "Kasun Perera", snap.SenderName)
	assert.Equal(t, "R7", snap.RiderID)

	require.Len(t, activity.appends, 2)
	assert.Equal(t, shared.StatusPickupRequestFinalized, activity.appends[1])
}

func TestFinalizeWithoutIDMintsAndSnapshots(t *testing.T) {
	svc, repo, _, _, _ := newService()

	result, err := svc.Finalize(context.Background(), staffIdentity, validForm())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.issued)
	assert.Equal(t, CommonStatusFinalized, repo.requests[result.ID].CommonStatus)
	require.Len(t, repo.snapshots, 1)
	assert.Equal(t, result.Reference, repo.snapshots[0].Reference)
}

func TestFinalizeTwiceConflicts(t *testing.T) {
	svc, repo, _, _, _ := newService()

	draft, err := svc.Save(context.Background(), staffIdentity, validForm())
	require.NoError(t, err)

	form := validForm()
	form.ID = draft.ID
	_, err = svc.Finalize(context.Background(), staffIdentity, form)
	require.NoError(t, err)

	_, err = svc.Finalize(context.Background(), staffIdentity, form)
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Len(t, repo.snapshots, 1)
}

func TestFinalizeUnknownIDFails(t *testing.T) {
	svc, repo, _, _, _ := newService()

	form := validForm()
	form.ID = 42
	_, err := svc.Finalize(context.Background(), staffIdentity, form)
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, repo.snapshots)
}

func TestFinalizeRegistrarFailureAborts(t *testing.T) {
	svc, repo, _, registrar, _ := newService()
	registrar.err = shared.ErrPersistence

	_, err := svc.Finalize(context.Background(), staffIdentity, validForm())
	require.ErrorIs(t, err, shared.ErrPersistence)
	assert.Empty(t, repo.requests)
}

func TestGuestIntakeWithCustomBox(t *testing.T) {
	svc, repo, _, _, boxes := newService()

	result, err := svc.GuestIntake(context.Background(), staffIdentity, GuestIntakeRequest{
		ParcelType:       "General",
		RecipientName:    "Nimal Silva",
		RecipientContact: "0712345678",
		RecipientAddress: "5 Kandy Rd",
		RecipientCity:    "Kandy",
		PaymentMethod:    "Cash",
		BoxSize:          "custom",
		SenderName:       "Kasun Perera",
		SenderContact:    "0771234567",
		SenderAddress:    "12 Galle Rd",
		SenderCity:       "Colombo",
		SenderEmail:      "kasun@example.com",
		CustomWidth:      10,
		CustomHeight:     20,
		CustomLength:     30,
		CustomPrice:      4500,
	})
	require.NoError(t, err)

	require.Len(t, boxes.inserted, 1)
	assert.Equal(t, 6000.0, boxes.inserted[0].Volume)
	assert.True(t, boxes.inserted[0].CustomSize)

	p := repo.requests[result.ID]
	require.NotNil(t, p)
	assert.Equal(t, int64(101), p.BoxID)
	assert.Equal(t, CommonStatusDraft, p.CommonStatus)
	assert.Equal(t, "General", p.ParcelType)
}

func TestGuestIntakeRejectsBadBoxSize(t *testing.T) {
	svc, _, _, _, _ := newService()

	_, err := svc.GuestIntake(context.Background(), staffIdentity, GuestIntakeRequest{BoxSize: "huge"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteOrder(t *testing.T) {
	svc, repo, _, _, _ := newService()

	require.NoError(t, svc.DeleteOrder(context.Background(), "PR-250601-0001"))
	assert.Equal(t, []string{"PR-250601-0001"}, repo.deleted)

	err := svc.DeleteOrder(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrValidation)
}

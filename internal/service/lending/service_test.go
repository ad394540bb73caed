package lending

import (
	"context"
	"testing"

	"asset-lending/internal/apperr"
	"asset-lending/internal/models"
	"asset-lending/internal/service/inventory"
	"asset-lending/internal/testkit"
	"asset-lending/internal/validation"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	employee models.User
	admin    models.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testkit.NewDB(t)
	return fixture{
		db:       db,
		svc:      New(db, nil),
		employee: testkit.CreateUser(t, db, "employee@test.local", models.RoleEmployee),
		admin:    testkit.CreateUser(t, db, "admin@test.local", models.RoleAdmin),
	}
}

func (f fixture) reloadAsset(t *testing.T, id uint) models.Asset {
	t.Helper()
	var a models.Asset
	require.NoError(t, f.db.First(&a, id).Error)
	return a
}

func (f fixture) history(t *testing.T, borrowID uint) []models.BorrowHistory {
	t.Helper()
	rows, err := f.svc.History(context.Background(), borrowID)
	require.NoError(t, err)
	return rows
}

func TestRequest_CreatesPendingWithHistory(t *testing.T) {
	f := newFixture(t)
	asset := testkit.CreateAsset(t, f.db, "Laptop-001", "Laptop Dell", models.AssetTypeAsset, models.AssetAvailable, 2)

	borrow, err := f.svc.Request(context.Background(), f.employee.ID, RequestInput{AssetID: asset.ID, Notes: " for travel "})
	require.NoError(t, err)
	require.Equal(t, models.BorrowPending, borrow.Status)
	require.Equal(t, 1, borrow.Quantity)
	require.Equal(t, "for travel", borrow.Notes)

	rows := f.history(t, borrow.ID)
	require.Len(t, rows, 1)
	require.Equal(t, models.BorrowPending, rows[0].NewStatus)
	require.Equal(t, f.employee.ID, rows[0].ChangedBy)

	// заявка не трогает склад
	require.Equal(t, 2, f.reloadAsset(t, asset.ID).Stock)
}

func TestRequest_UnavailableAssetCreatesNothing(t *testing.T) {
	for _, status := range []models.AssetStatus{models.AssetBorrowed, models.AssetMaintenance, models.AssetRetired} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			asset := testkit.CreateAsset(t, f.db, "Laptop-001", "Laptop", models.AssetTypeAsset, status, 1)

			_, err := f.svc.Request(context.Background(), f.employee.ID, RequestInput{AssetID: asset.ID, Quantity: 1})
			require.ErrorIs(t, err, apperr.ErrAssetUnavailable)

			var count int64
			f.db.Model(&models.Borrow{}).Count(&count)
			require.Zero(t, count)
			f.db.Model(&models.BorrowHistory{}).Count(&count)
			require.Zero(t, count)
		})
	}
}

func TestRequest_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: 0, Quantity: -2})
	ve, ok := validation.As(err)
	require.True(t, ok)
	require.Contains(t, ve.Fields, "asset_id")
	require.Contains(t, ve.Fields, "quantity")

	_, err = f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: 999, Quantity: 1})
	ve, ok = validation.As(err)
	require.True(t, ok)
	require.Equal(t, "selected asset does not exist", ve.Fields["asset_id"])
}

func TestRequest_QuantityAboveStock(t *testing.T) {
	f := newFixture(t)
	asset := testkit.CreateAsset(t, f.db, "Equipment-001", "Chair", models.AssetTypeEquipment, models.AssetAvailable, 3)

	_, err := f.svc.Request(context.Background(), f.employee.ID, RequestInput{AssetID: asset.ID, Quantity: 4})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
}

func TestApproveThenReturn_RestoresAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := testkit.CreateAsset(t, f.db, "Equipment-001", "Chair", models.AssetTypeEquipment, models.AssetAvailable, 5)

	borrow, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: asset.ID, Quantity: 3})
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, borrow.ID, f.admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.BorrowApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.Equal(t, f.admin.ID, *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovalDate)

	a := f.reloadAsset(t, asset.ID)
	require.Equal(t, models.AssetBorrowed, a.Status)
	require.Equal(t, 2, a.Stock)

	returned, err := f.svc.Return(ctx, borrow.ID, f.admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.BorrowReturned, returned.Status)
	require.NotNil(t, returned.EndedAt)

	a = f.reloadAsset(t, asset.ID)
	require.Equal(t, models.AssetAvailable, a.Status)
	require.Equal(t, 5, a.Stock)

	rows := f.history(t, borrow.ID)
	require.Len(t, rows, 3)
	require.Equal(t, models.BorrowPending, rows[1].OldStatus)
	require.Equal(t, models.BorrowApproved, rows[1].NewStatus)
	require.Equal(t, models.BorrowApproved, rows[2].OldStatus)
	require.Equal(t, models.BorrowReturned, rows[2].NewStatus)
}

func TestReject_LeavesAssetUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := testkit.CreateAsset(t, f.db, "Vehicle-001", "Avanza", models.AssetTypeVehicle, models.AssetAvailable, 1)

	borrow, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: asset.ID})
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, borrow.ID, f.admin.ID, "")
	require.NoError(t, err)
	require.Equal(t, models.BorrowRejected, rejected.Status)
	require.Equal(t, "Rejected by admin", rejected.Notes)

	a := f.reloadAsset(t, asset.ID)
	require.Equal(t, models.AssetAvailable, a.Status)
	require.Equal(t, 1, a.Stock)

	rows := f.history(t, borrow.ID)
	require.Len(t, rows, 2)
	require.Equal(t, models.BorrowRejected, rows[1].NewStatus)
	require.Equal(t, "Rejected by admin", rows[1].Notes)
}

func TestReject_KeepsGivenNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := testkit.CreateAsset(t, f.db, "Vehicle-001", "Avanza", models.AssetTypeVehicle, models.AssetAvailable, 1)

	borrow, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: asset.ID})
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, borrow.ID, f.admin.ID, "vehicle booked for audit")
	require.NoError(t, err)
	require.Equal(t, "vehicle booked for audit", rejected.Notes)
}

func TestTransitions_GuardSourceStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := testkit.CreateAsset(t, f.db, "Equipment-001", "Chair", models.AssetTypeEquipment, models.AssetAvailable, 4)

	borrow, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: asset.ID, Quantity: 2})
	require.NoError(t, err)

	// возврат до подтверждения невозможен
	_, err = f.svc.Return(ctx, borrow.ID, f.admin.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = f.svc.Approve(ctx, borrow.ID, f.admin.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, borrow.ID, f.admin.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	_, err = f.svc.Reject(ctx, borrow.ID, f.admin.ID, "late")
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	// двойное подтверждение не списало склад повторно
	require.Equal(t, 2, f.reloadAsset(t, asset.ID).Stock)

	_, err = f.svc.Return(ctx, borrow.ID, f.admin.ID)
	require.NoError(t, err)
	_, err = f.svc.Return(ctx, borrow.ID, f.admin.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	require.Len(t, f.history(t, borrow.ID), 3)
	require.Equal(t, 4, f.reloadAsset(t, asset.ID).Stock)
}

func TestApprove_NeverOverdrawsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := testkit.CreateAsset(t, f.db, "Equipment-001", "Projector", models.AssetTypeEquipment, models.AssetAvailable, 2)

	first, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: asset.ID, Quantity: 2})
	require.NoError(t, err)
	second, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: asset.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, first.ID, f.admin.ID)
	require.NoError(t, err)

	// второе подтверждение упирается в нулевой склад и откатывается целиком
	require.NoError(t, f.db.Model(&models.Asset{}).Where("id = ?", asset.ID).Update("status", models.AssetAvailable).Error)
	_, err = f.svc.Approve(ctx, second.ID, f.admin.ID)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	a := f.reloadAsset(t, asset.ID)
	require.Equal(t, 0, a.Stock)

	b, err := f.svc.Get(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, models.BorrowPending, b.Status)
	require.Len(t, f.history(t, second.ID), 1)
}

func TestTransition_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Approve(context.Background(), 77, f.admin.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMineAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testkit.CreateUser(t, f.db, "other@test.local", models.RoleEmployee)
	asset := testkit.CreateAsset(t, f.db, "Equipment-001", "Chair", models.AssetTypeEquipment, models.AssetAvailable, 10)

	b1, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: asset.ID})
	require.NoError(t, err)
	b2, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: asset.ID})
	require.NoError(t, err)
	_, err = f.svc.Request(ctx, other.ID, RequestInput{AssetID: asset.ID})
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, b1.ID, f.admin.ID, "")
	require.NoError(t, err)

	mine, err := f.svc.Mine(ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, b2.ID, mine[0].ID)
	require.Equal(t, "Chair", mine[0].Asset.Name)

	pending, err := f.svc.List(ctx, models.BorrowPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	all, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

// Scenario from the lending workflow: a room is created, requested,
// approved and returned.
func TestScenario_MeetingRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := inventory.New(f.db, nil).Create(ctx, inventory.AssetInput{Name: "Meeting Room A", Type: "room", Status: "available"})
	require.NoError(t, err)
	require.Equal(t, "Meeting-Room-A-001", room.SerialNumber)

	borrow, err := f.svc.Request(ctx, f.employee.ID, RequestInput{AssetID: room.ID, Quantity: 1})
	require.NoError(t, err)
	require.Equal(t, models.BorrowPending, borrow.Status)

	approved, err := f.svc.Approve(ctx, borrow.ID, f.admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.BorrowApproved, approved.Status)
	require.Equal(t, models.AssetBorrowed, f.reloadAsset(t, room.ID).Status)

	var approvals []models.BorrowHistory
	require.NoError(t, f.db.Where("borrow_id = ? AND old_status = ? AND new_status = ?", borrow.ID, models.BorrowPending, models.BorrowApproved).Find(&approvals).Error)
	require.Len(t, approvals, 1)

	returned, err := f.svc.Return(ctx, borrow.ID, f.admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.BorrowReturned, returned.Status)
	require.Equal(t, models.AssetAvailable, f.reloadAsset(t, room.ID).Status)
}

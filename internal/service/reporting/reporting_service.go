package reporting

import (
	"context"
	"fmt"

	"asset-lending/internal/models"

	"gorm.io/gorm"
)

// Service runs read-only aggregation queries for the dashboards.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

type statusCount struct {
	Bucket string
	Total  int64
}

func (s *Service) groupCount(ctx context.Context, model interface{}, column string, scope func(*gorm.DB) *gorm.DB) (map[string]int64, error) {
	q := s.db.WithContext(ctx).Model(model)
	if scope != nil {
		q = scope(q)
	}

	var rows []statusCount
	if err := q.Select(column + " AS bucket, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Bucket] = r.Total
	}
	return out, nil
}

// AssetsByStatus counts assets per status; every status is present.
func (s *Service) AssetsByStatus(ctx context.Context) (map[models.AssetStatus]int64, error) {
	raw, err := s.groupCount(ctx, &models.Asset{}, "status", nil)
	if err != nil {
		return nil, fmt.Errorf("count assets by status: %w", err)
	}

	out := make(map[models.AssetStatus]int64, len(models.AssetStatuses))
	for _, st := range models.AssetStatuses {
		out[st] = raw[string(st)]
	}
	return out, nil
}

func (s *Service) TotalAssets(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Asset{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}

// UserCounts is keyed by role, then status.
type UserCounts map[models.UserRole]map[models.UserStatus]int64

// Role sums every status of a role.
func (u UserCounts) Role(role models.UserRole) int64 {
	var n int64
	for _, v := range u[role] {
		n += v
	}
	return n
}

func (u UserCounts) Get(role models.UserRole, status models.UserStatus) int64 {
	return u[role][status]
}

type roleStatusCount struct {
	Role   models.UserRole
	Status models.UserStatus
	Total  int64
}

func (s *Service) UserCounts(ctx context.Context) (UserCounts, error) {
	var rows []roleStatusCount
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, status, COUNT(*) AS total").
		Group("role, status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	out := UserCounts{}
	for _, r := range rows {
		if out[r.Role] == nil {
			out[r.Role] = map[models.UserStatus]int64{}
		}
		out[r.Role][r.Status] = r.Total
	}
	return out, nil
}

// BorrowsByStatus counts borrows per status, optionally for one user
// (userID 0 means everyone).
func (s *Service) BorrowsByStatus(ctx context.Context, userID uint) (map[models.BorrowStatus]int64, error) {
	var scope func(*gorm.DB) *gorm.DB
	if userID != 0 {
		scope = func(q *gorm.DB) *gorm.DB { return q.Where("user_id = ?", userID) }
	}

	raw, err := s.groupCount(ctx, &models.Borrow{}, "status", scope)
	if err != nil {
		return nil, fmt.Errorf("count borrows by status: %w", err)
	}

	out := map[models.BorrowStatus]int64{}
	for _, st := range []models.BorrowStatus{models.BorrowPending, models.BorrowApproved, models.BorrowRejected, models.BorrowReturned} {
		out[st] = raw[string(st)]
	}
	return out, nil
}

// RecentBorrows returns the latest n borrows with user and asset loaded.
func (s *Service) RecentBorrows(ctx context.Context, n int) ([]models.Borrow, error) {
	var borrows []models.Borrow
	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Asset").
		Order("created_at desc, id desc").
		Limit(n).
		Find(&borrows).Error; err != nil {
		return nil, fmt.Errorf("recent borrows: %w", err)
	}
	return borrows, nil
}

// PendingUsers lists admins and employees waiting for activation.
func (s *Service) PendingUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("role IN ? AND status = ?", []models.UserRole{models.RoleAdmin, models.RoleEmployee}, models.UserPending).
		Order("created_at asc, id asc").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("pending users: %w", err)
	}
	return users, nil
}

func (s *Service) Assets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).Order("name asc, id asc").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

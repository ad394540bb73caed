// Package lending implements the borrow workflow:
//
//	pending -> approved -> returned
//	pending -> rejected
//
// Each transition updates the borrow, the asset and the history log in one
// transaction, and only fires from its expected source status.
package lending

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"asset-lending/internal/apperr"
	"asset-lending/internal/database"
	"asset-lending/internal/models"
	"asset-lending/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	noteRequested = "Borrow requested by employee"
	noteApproved  = "Approved by admin"
	noteRejected  = "Rejected by admin"
	noteReturned  = "Asset returned"
)

type RequestInput struct {
	AssetID  uint   `json:"asset_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
	Notes    string `json:"notes" validate:"max=1000"`
}

type Service struct {
	db       *gorm.DB
	validate *validation.Validator
	log      *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, validate: validation.New(), log: log.Named("lending")}
}

// Request creates a pending borrow for userID. Quantity 0 means 1.
func (s *Service) Request(ctx context.Context, userID uint, in RequestInput) (models.Borrow, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := s.validate.Validate(in); err != nil {
		return models.Borrow{}, err
	}

	var borrow models.Borrow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, in.AssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validation.Field("asset_id", "selected asset does not exist")
			}
			return err
		}
		if asset.Status != models.AssetAvailable {
			return apperr.ErrAssetUnavailable
		}
		if in.Quantity > asset.Stock {
			return apperr.ErrInsufficientStock
		}

		borrow = models.Borrow{
			UserID:   userID,
			AssetID:  asset.ID,
			Status:   models.BorrowPending,
			Quantity: in.Quantity,
			Notes:    in.Notes,
		}
		if err := tx.Create(&borrow).Error; err != nil {
			return err
		}
		borrow.Asset = asset

		return database.CreateBorrowHistory(tx, borrow.ID, userID, models.BorrowPending, models.BorrowPending, noteRequested)
	})
	if err != nil {
		return models.Borrow{}, fmt.Errorf("request borrow: %w", err)
	}

	s.log.Info("borrow requested",
		zap.Uint("borrow_id", borrow.ID),
		zap.Uint("asset_id", borrow.AssetID),
		zap.Uint("user_id", userID),
		zap.Int("quantity", borrow.Quantity),
	)
	return borrow, nil
}

// Approve moves a pending borrow to approved, takes the quantity out of
// stock and marks the asset borrowed.
func (s *Service) Approve(ctx context.Context, borrowID, adminID uint) (models.Borrow, error) {
	now := time.Now()
	return s.apply(ctx, borrowID, adminID, transition{
		from:  models.BorrowPending,
		to:    models.BorrowApproved,
		notes: noteApproved,
		fields: map[string]interface{}{
			"approved_by":   adminID,
			"approval_date": now,
		},
		asset: func(tx *gorm.DB, b models.Borrow) error {
			res := tx.Model(&models.Asset{}).
				Where("id = ? AND stock >= ?", b.AssetID, b.Quantity).
				Updates(map[string]interface{}{
					"stock":  gorm.Expr("stock - ?", b.Quantity),
					"status": models.AssetBorrowed,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.ErrInsufficientStock
			}
			return nil
		},
	})
}

// Reject closes a pending borrow. The asset is left untouched.
func (s *Service) Reject(ctx context.Context, borrowID, adminID uint, notes string) (models.Borrow, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = noteRejected
	}
	now := time.Now()
	return s.apply(ctx, borrowID, adminID, transition{
		from:  models.BorrowPending,
		to:    models.BorrowRejected,
		notes: notes,
		fields: map[string]interface{}{
			"approved_by":   adminID,
			"approval_date": now,
			"notes":         notes,
		},
	})
}

// Return closes an approved borrow, puts the quantity back into stock and
// makes the asset available again.
func (s *Service) Return(ctx context.Context, borrowID, actorID uint) (models.Borrow, error) {
	now := time.Now()
	return s.apply(ctx, borrowID, actorID, transition{
		from:  models.BorrowApproved,
		to:    models.BorrowReturned,
		notes: noteReturned,
		fields: map[string]interface{}{
			"ended_at": now,
		},
		asset: func(tx *gorm.DB, b models.Borrow) error {
			return tx.Model(&models.Asset{}).
				Where("id = ?", b.AssetID).
				Updates(map[string]interface{}{
					"stock":  gorm.Expr("stock + ?", b.Quantity),
					"status": models.AssetAvailable,
				}).Error
		},
	})
}

type transition struct {
	from, to models.BorrowStatus
	notes    string
	fields   map[string]interface{}
	asset    func(tx *gorm.DB, b models.Borrow) error
}

func (s *Service) apply(ctx context.Context, borrowID, actorID uint, t transition) (models.Borrow, error) {
	var borrow models.Borrow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&borrow, borrowID).Error; err != nil {
			return err
		}
		if borrow.Status != t.from {
			return invalidTransition(borrow, t.to)
		}

		fields := map[string]interface{}{"status": t.to}
		for k, v := range t.fields {
			fields[k] = v
		}

		// условие по статусу защищает от двойного подтверждения
		res := tx.Model(&models.Borrow{}).
			Where("id = ? AND status = ?", borrow.ID, t.from).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidTransition(borrow, t.to)
		}

		if t.asset != nil {
			if err := t.asset(tx, borrow); err != nil {
				return err
			}
		}

		if err := database.CreateBorrowHistory(tx, borrow.ID, actorID, t.from, t.to, t.notes); err != nil {
			return err
		}

		return tx.Preload("User").Preload("Asset").First(&borrow, borrow.ID).Error
	})
	if err != nil {
		return models.Borrow{}, fmt.Errorf("%s borrow %d: %w", t.to, borrowID, err)
	}

	s.log.Info("borrow status changed",
		zap.Uint("borrow_id", borrow.ID),
		zap.String("from", string(t.from)),
		zap.String("to", string(t.to)),
		zap.Uint("changed_by", actorID),
	)
	return borrow, nil
}

func invalidTransition(b models.Borrow, to models.BorrowStatus) error {
	return apperr.New(apperr.CodeInvalidTransition,
		fmt.Sprintf("Borrow request #%d is %s and cannot be %s.", b.ID, b.Status, to))
}

func (s *Service) Get(ctx context.Context, id uint) (models.Borrow, error) {
	var borrow models.Borrow
	if err := s.db.WithContext(ctx).Preload("User").Preload("Asset").First(&borrow, id).Error; err != nil {
		return models.Borrow{}, fmt.Errorf("get borrow %d: %w", id, err)
	}
	return borrow, nil
}

// Mine lists the user's borrows, latest first.
func (s *Service) Mine(ctx context.Context, userID uint) ([]models.Borrow, error) {
	var borrows []models.Borrow
	if err := s.db.WithContext(ctx).
		Preload("Asset").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&borrows).Error; err != nil {
		return nil, fmt.Errorf("list borrows of user %d: %w", userID, err)
	}
	return borrows, nil
}

// List returns all borrows, optionally filtered by status, latest first.
func (s *Service) List(ctx context.Context, status models.BorrowStatus) ([]models.Borrow, error) {
	q := s.db.WithContext(ctx).Preload("User").Preload("Asset").Order("created_at desc, id desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var borrows []models.Borrow
	if err := q.Find(&borrows).Error; err != nil {
		return nil, fmt.Errorf("list borrows: %w", err)
	}
	return borrows, nil
}

// History returns the audit trail of a borrow in the order it was written.
func (s *Service) History(ctx context.Context, borrowID uint) ([]models.BorrowHistory, error) {
	var rows []models.BorrowHistory
	if err := s.db.WithContext(ctx).
		Preload("Changer").
		Where("borrow_id = ?", borrowID).
		Order("changed_at asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("history of borrow %d: %w", borrowID, err)
	}
	return rows, nil
}

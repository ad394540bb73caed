package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"asset-lending/internal/apperr"
	"asset-lending/internal/models"
	"asset-lending/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxSerialAttempts = 5

// AssetInput is the writable part of an asset. Stock is optional; new assets
// default to a stock of 1.
type AssetInput struct {
	Name   string `json:"name" validate:"required,max=255"`
	Type   string `json:"type" validate:"required,oneof=asset room vehicle equipment"`
	Status string `json:"status" validate:"required,oneof=available borrowed maintenance retired"`
	Stock  *int   `json:"stock" validate:"omitempty,gte=0"`
}

type Filter struct {
	Type   models.AssetType
	Status models.AssetStatus
}

type Service struct {
	db       *gorm.DB
	seq      Sequence
	locks    *prefixLocks
	validate *validation.Validator
	log      *zap.Logger
}

// locks are shared by every Service so per-request construction still
// serializes allocation.
var sharedLocks = &prefixLocks{}

func New(db *gorm.DB, log *zap.Logger) *Service {
	return NewWithSequence(db, SuffixSequence{}, log)
}

func NewWithSequence(db *gorm.DB, seq Sequence, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:       db,
		seq:      seq,
		locks:    sharedLocks,
		validate: validation.New(),
		log:      log.Named("inventory"),
	}
}

func (s *Service) normalize(in *AssetInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.Status = strings.TrimSpace(in.Status)
	return s.validate.Validate(in)
}

// Create validates the input, allocates a serial and stores the asset.
func (s *Service) Create(ctx context.Context, in AssetInput) (models.Asset, error) {
	if err := s.normalize(&in); err != nil {
		return models.Asset{}, err
	}

	typ := models.AssetType(in.Type)
	prefix := SerialPrefix(in.Name, typ)
	stock := 1
	if in.Stock != nil {
		stock = *in.Stock
	}

	unlock := s.locks.Lock(prefix)
	defer unlock()

	for attempt := 1; attempt <= maxSerialAttempts; attempt++ {
		var asset models.Asset
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			n, err := s.seq.Next(tx, prefix)
			if err != nil {
				return fmt.Errorf("next serial for %q: %w", prefix, err)
			}
			asset = models.Asset{
				SerialNumber: FormatSerial(prefix, n),
				Name:         in.Name,
				Type:         typ,
				Status:       models.AssetStatus(in.Status),
				Stock:        stock,
			}
			return tx.Create(&asset).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn("serial collision, retrying", zap.String("prefix", prefix), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return models.Asset{}, fmt.Errorf("create asset: %w", err)
		}

		s.log.Info("asset created",
			zap.Uint("asset_id", asset.ID),
			zap.String("serial", asset.SerialNumber),
		)
		return asset, nil
	}

	return models.Asset{}, apperr.ErrSerialExhausted
}

func (s *Service) Get(ctx context.Context, id uint) (models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).First(&asset, id).Error; err != nil {
		return models.Asset{}, fmt.Errorf("get asset %d: %w", id, err)
	}
	return asset, nil
}

// Update replaces name, type and status, and stock when given. The serial
// number never changes.
func (s *Service) Update(ctx context.Context, id uint, in AssetInput) (models.Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return models.Asset{}, err
	}
	if err := s.normalize(&in); err != nil {
		return models.Asset{}, err
	}

	asset.Name = in.Name
	asset.Type = models.AssetType(in.Type)
	asset.Status = models.AssetStatus(in.Status)
	if in.Stock != nil {
		asset.Stock = *in.Stock
	}

	if err := s.db.WithContext(ctx).Save(&asset).Error; err != nil {
		return models.Asset{}, fmt.Errorf("update asset %d: %w", id, err)
	}

	s.log.Info("asset updated", zap.Uint("asset_id", asset.ID))
	return asset, nil
}

// Delete hard-deletes the asset together with its closed borrows and their
// history. Assets with pending or approved borrows are refused.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, id).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Borrow{}).
			Where("asset_id = ? AND status IN ?", id, []models.BorrowStatus{models.BorrowPending, models.BorrowApproved}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperr.ErrAssetInUse
		}

		var borrowIDs []uint
		if err := tx.Model(&models.Borrow{}).Where("asset_id = ?", id).Pluck("id", &borrowIDs).Error; err != nil {
			return err
		}
		if len(borrowIDs) > 0 {
			if err := tx.Where("borrow_id IN ?", borrowIDs).Delete(&models.BorrowHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", borrowIDs).Delete(&models.Borrow{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&asset).Error
	})
	if err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}

	s.log.Info("asset deleted", zap.Uint("asset_id", id))
	return nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Asset, error) {
	q := s.db.WithContext(ctx).Order("name asc, id asc")
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var assets []models.Asset
	if err := q.Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// Available lists assets an employee can request right now.
func (s *Service) Available(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).
		Where("status = ? AND stock > 0", models.AssetAvailable).
		Order("name asc, id asc").
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list available assets: %w", err)
	}
	return assets, nil
}

package database

import (
	"time"

	"asset-lending/internal/models"

	"gorm.io/gorm"
)

// CreateBorrowHistory appends one audit row for a borrow status change. It
// must run on the transaction that performed the change.
func CreateBorrowHistory(tx *gorm.DB, borrowID, changedBy uint, from, to models.BorrowStatus, notes string) error {
	record := models.BorrowHistory{
		BorrowID:  borrowID,
		ChangedBy: changedBy,
		OldStatus: from,
		NewStatus: to,
		Notes:     notes,
		ChangedAt: time.Now(),
	}
	return tx.Create(&record).Error
}

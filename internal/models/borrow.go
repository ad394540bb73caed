package models

import "time"

type BorrowStatus string

const (
	BorrowPending  BorrowStatus = "pending"
	BorrowApproved BorrowStatus = "approved"
	BorrowRejected BorrowStatus = "rejected"
	BorrowReturned BorrowStatus = "returned"
)

func (s BorrowStatus) Valid() bool {
	switch s {
	case BorrowPending, BorrowApproved, BorrowRejected, BorrowReturned:
		return true
	}
	return false
}

// Active reports whether the borrow still holds or may hold the asset.
func (s BorrowStatus) Active() bool {
	return s == BorrowPending || s == BorrowApproved
}

type Borrow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `json:"user,omitempty"`

	AssetID uint  `gorm:"not null;index" json:"asset_id"`
	Asset   Asset `json:"asset,omitempty"`

	Status   BorrowStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Quantity int          `gorm:"not null;default:1" json:"quantity"`
	Notes    string       `gorm:"type:text" json:"notes"`

	ApprovedBy   *uint      `json:"approved_by"`
	ApprovalDate *time.Time `json:"approval_date"`
	EndedAt      *time.Time `json:"ended_at"`
}

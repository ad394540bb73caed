package models

import "time"

// BorrowHistory is append-only: rows are inserted once per status change and
// never updated.
type BorrowHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BorrowID uint `gorm:"not null;index" json:"borrow_id"`

	ChangedBy uint `json:"changed_by"`
	Changer   User `gorm:"foreignKey:ChangedBy" json:"changer,omitempty"`

	OldStatus BorrowStatus `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus BorrowStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	Notes     string       `gorm:"type:text" json:"notes"`
	ChangedAt time.Time    `gorm:"not null" json:"changed_at"`
}

func (BorrowHistory) TableName() string { return "borrow_histories" }

package models

import "time"

type AssetType string
type AssetStatus string

const (
	AssetTypeAsset     AssetType = "asset"
	AssetTypeRoom      AssetType = "room"
	AssetTypeVehicle   AssetType = "vehicle"
	AssetTypeEquipment AssetType = "equipment"

	AssetAvailable   AssetStatus = "available"
	AssetBorrowed    AssetStatus = "borrowed"
	AssetMaintenance AssetStatus = "maintenance"
	AssetRetired     AssetStatus = "retired"
)

// AssetStatuses lists every status in display order.
var AssetStatuses = []AssetStatus{AssetAvailable, AssetBorrowed, AssetMaintenance, AssetRetired}

func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeAsset, AssetTypeRoom, AssetTypeVehicle, AssetTypeEquipment:
		return true
	}
	return false
}

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetAvailable, AssetBorrowed, AssetMaintenance, AssetRetired:
		return true
	}
	return false
}

type Asset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SerialNumber string      `gorm:"size:255;uniqueIndex;not null" json:"serial_number"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	Type         AssetType   `gorm:"type:varchar(20);not null" json:"type"`
	Status       AssetStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Stock        int         `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
}

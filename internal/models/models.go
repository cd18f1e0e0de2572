package models

import (
	"time"

	"gorm.io/datatypes"
)

// Base is a military installation. Deletion is not exposed; bases are only
// created and edited.
type Base struct {
	Model
	Name     string `gorm:"not null" json:"name" validate:"required,min=2"`
	Location string `gorm:"not null" json:"location" validate:"required"`
}

// Asset is an equipment type tracked across bases. Quantity changes flow
// through purchases, transfers and assignments, never direct edits.
type Asset struct {
	Model
	Name     string `gorm:"not null" json:"name" validate:"required"`
	Type     string `gorm:"not null" json:"type" validate:"required"`
	TotalQty int64  `gorm:"not null" json:"total_qty" validate:"required,gt=0"`
}

// Purchase is an append-only acquisition record.
type Purchase struct {
	Model
	AssetID  string    `gorm:"type:uuid;not null;index" json:"asset_id" validate:"required,uuid"`
	Asset    *Asset    `json:"asset,omitempty"`
	BaseID   string    `gorm:"type:uuid;not null;index" json:"base_id" validate:"required,uuid"`
	Base     *Base     `json:"base,omitempty"`
	Quantity int64     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Date     time.Time `gorm:"not null;index" json:"date"`
}

// Transfer moves a quantity of an asset between two distinct bases.
// Append-only.
type Transfer struct {
	Model
	AssetID    string    `gorm:"type:uuid;not null;index" json:"asset_id" validate:"required,uuid"`
	Asset      *Asset    `json:"asset,omitempty"`
	FromBaseID string    `gorm:"type:uuid;not null;index" json:"from_base_id" validate:"required,uuid"`
	FromBase   *Base     `json:"from_base,omitempty"`
	ToBaseID   string    `gorm:"type:uuid;not null;index" json:"to_base_id" validate:"required,uuid,nefield=FromBaseID"`
	ToBase     *Base     `json:"to_base,omitempty"`
	Quantity   int64     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Date       time.Time `gorm:"not null;index" json:"date"`
}

// Assignment hands a quantity of an asset to named personnel at a base.
// Only the status is mutable after creation.
type Assignment struct {
	Model
	AssetID       string           `gorm:"type:uuid;not null;index" json:"asset_id" validate:"required,uuid"`
	Asset         *Asset           `json:"asset,omitempty"`
	BaseID        string           `gorm:"type:uuid;not null;index" json:"base_id" validate:"required,uuid"`
	Base          *Base            `json:"base,omitempty"`
	PersonnelName string           `gorm:"not null" json:"personnel_name" validate:"required"`
	Quantity      int64            `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Status        AssignmentStatus `gorm:"not null;default:'assigned'" json:"status" validate:"required,assignment_status"`
	Date          time.Time        `gorm:"not null;index" json:"date"`
}

// LedgerSnapshot is a periodic capture of the computed movement summary for
// one base, written by the snapshot task. It is an audit record; live
// summaries are always computed from the movement tables.
type LedgerSnapshot struct {
	Model
	BaseID  string         `gorm:"type:uuid;index" json:"base_id"`
	Base    *Base          `json:"base,omitempty"`
	AsOf    time.Time      `gorm:"not null;index" json:"as_of"`
	Figures datatypes.JSON `gorm:"type:jsonb" json:"figures"`
}

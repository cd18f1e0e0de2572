package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model contains common columns for all tables
type Model struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt time.Time `gorm:"index;default:NULL" json:"-" validate:"omitempty"`
	IsDeleted bool      `json:"isDeleted" default:"false"`
}

// EntityID returns the record's primary key.
func (m Model) EntityID() string { return m.ID }

// BeforeCreate will set a UUID rather than numeric ID
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type AssignmentStatus string

const (
	AssignmentStatusAssigned AssignmentStatus = "assigned"
	AssignmentStatusReturned AssignmentStatus = "returned"
	AssignmentStatusExpended AssignmentStatus = "expended"
	AssignmentStatusLost     AssignmentStatus = "lost"
)

// IsValidAssignmentStatus checks if a given status is valid
func IsValidAssignmentStatus(status AssignmentStatus) bool {
	switch status {
	case AssignmentStatusAssigned, AssignmentStatusReturned,
		AssignmentStatusExpended, AssignmentStatusLost:
		return true
	default:
		return false
	}
}

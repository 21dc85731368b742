package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProjectTitle is used when a project is saved without a title.
const DefaultProjectTitle = "Untitled project"

// Project is a user's editor draft: timeline blocks, notes and attachments.
// TimelineBlocks and Attachments are opaque JSON arrays owned by the editor.
type Project struct {
	ID             string            `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerID        string            `json:"ownerId" gorm:"type:char(36);not null;index"`
	Title          string            `json:"title" gorm:"type:text;not null"`
	TimelineBlocks []json.RawMessage `json:"timelineBlocks" gorm:"type:text;serializer:json"`
	Notes          string            `json:"notes" gorm:"type:text"`
	Attachments    []json.RawMessage `json:"attachments" gorm:"type:text;serializer:json"`
	CreatedAt      time.Time         `json:"createdAt" gorm:"index"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ApplyDefaults fills blank fields with their documented defaults.
func (p *Project) ApplyDefaults() {
	if p.Title == "" {
		p.Title = DefaultProjectTitle
	}
	if p.TimelineBlocks == nil {
		p.TimelineBlocks = []json.RawMessage{}
	}
	if p.Attachments == nil {
		p.Attachments = []json.RawMessage{}
	}
}

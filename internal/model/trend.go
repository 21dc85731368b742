package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Defaults applied to optional trend fields on create and update.
const (
	DefaultTrendPlatform = "Instagram Reels"
	DefaultTrendStatus   = "Rising"
)

// Trend is a curated short-form video template: platform, hook, editing steps,
// caption and hashtags.
type Trend struct {
	ID              string    `json:"id" gorm:"type:char(36);primaryKey"`
	Title           string    `json:"title" gorm:"type:text;not null"`
	Platform        string    `json:"platform" gorm:"type:text;not null"`
	Niche           string    `json:"niche" gorm:"type:text"`
	HookType        string    `json:"hookType" gorm:"type:text"`
	Description     string    `json:"description" gorm:"type:text;not null"`
	EditingTemplate string    `json:"editingTemplate" gorm:"type:text;not null"`
	CaptionExample  string    `json:"captionExample" gorm:"type:text"`
	Hashtags        string    `json:"hashtags" gorm:"type:text"`
	SoundType       string    `json:"soundType" gorm:"type:text"`
	Status          string    `json:"status" gorm:"type:text;not null"`
	SourceURL       string    `json:"sourceUrl" gorm:"type:text"`
	CreatedAt       time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Trend) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ApplyDefaults fills blank optional fields with their documented defaults.
func (t *Trend) ApplyDefaults() {
	if t.Platform == "" {
		t.Platform = DefaultTrendPlatform
	}
	if t.Status == "" {
		t.Status = DefaultTrendStatus
	}
}

package handler

import (
	"encoding/json"
	"time"

	"reelforge/internal/model"
)

// UserResponse is the public view of a user. Credential material never leaves
// the service.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewUserResponse maps a stored user to its wire form.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// TrendResponse is the wire form of a trend template.
type TrendResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Platform        string    `json:"platform"`
	Niche           string    `json:"niche"`
	HookType        string    `json:"hookType"`
	Description     string    `json:"description"`
	EditingTemplate string    `json:"editingTemplate"`
	CaptionExample  string    `json:"captionExample"`
	Hashtags        string    `json:"hashtags"`
	SoundType       string    `json:"soundType"`
	Status          string    `json:"status"`
	SourceURL       string    `json:"sourceUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewTrendResponse maps a stored trend to its wire form.
func NewTrendResponse(t *model.Trend) TrendResponse {
	return TrendResponse{
		ID:              t.ID,
		Title:           t.Title,
		Platform:        t.Platform,
		Niche:           t.Niche,
		HookType:        t.HookType,
		Description:     t.Description,
		EditingTemplate: t.EditingTemplate,
		CaptionExample:  t.CaptionExample,
		Hashtags:        t.Hashtags,
		SoundType:       t.SoundType,
		Status:          t.Status,
		SourceURL:       t.SourceURL,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ProjectResponse is the wire form of an editor project.
type ProjectResponse struct {
	ID             string            `json:"id"`
	OwnerID        string            `json:"ownerId"`
	Title          string            `json:"title"`
	TimelineBlocks []json.RawMessage `json:"timelineBlocks"`
	Notes          string            `json:"notes"`
	Attachments    []json.RawMessage `json:"attachments"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// NewProjectResponse maps a stored project to its wire form.
func NewProjectResponse(p *model.Project) ProjectResponse {
	blocks, attachments := p.TimelineBlocks, p.Attachments
	if blocks == nil {
		blocks = []json.RawMessage{}
	}
	if attachments == nil {
		attachments = []json.RawMessage{}
	}
	return ProjectResponse{
		ID:             p.ID,
		OwnerID:        p.OwnerID,
		Title:          p.Title,
		TimelineBlocks: blocks,
		Notes:          p.Notes,
		Attachments:    attachments,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// DeleteResponse acknowledges a removal.
type DeleteResponse struct {
	Success   bool   `json:"success"`
	DeletedID string `json:"deletedId"`
}

// MessageResponse carries a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

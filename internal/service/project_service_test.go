package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reelforge/internal/errors"
	"reelforge/internal/model"
	"reelforge/internal/repository/memory"
)

func TestProjectService_CreateDefaults(t *testing.T) {
	svc := NewProjectService(memory.NewProjectRepository())

	project, err := svc.Create(context.Background(), "owner-1", ProjectInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "owner-1", project.OwnerID)
	assert.Equal(t, model.DefaultProjectTitle, project.Title)
	assert.NotNil(t, project.TimelineBlocks)
	assert.NotNil(t, project.Attachments)
}

func TestProjectService_OwnerScoping(t *testing.T) {
	svc := NewProjectService(memory.NewProjectRepository())
	ctx := context.Background()

	project, err := svc.Create(ctx, "owner-1", ProjectInput{
		Title:          "Launch reel",
		TimelineBlocks: []json.RawMessage{json.RawMessage(`{"start":0,"end":2}`)},
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "owner-2", project.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Project not found", err.Error())

	_, err = svc.Update(ctx, "owner-2", project.ID, ProjectInput{Title: "Stolen"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "owner-2", project.ID), apperrors.ErrNotFound)

	others, err := svc.List(ctx, "owner-2")
	require.NoError(t, err)
	assert.NotNil(t, others)
	assert.Empty(t, others)

	got, err := svc.Get(ctx, "owner-1", project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch reel", got.Title)
	require.Len(t, got.TimelineBlocks, 1)
	assert.JSONEq(t, `{"start":0,"end":2}`, string(got.TimelineBlocks[0]))
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	svc := NewProjectService(memory.NewProjectRepository())
	ctx := context.Background()

	project, err := svc.Create(ctx, "owner-1", ProjectInput{Title: "Draft"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "owner-1", project.ID, ProjectInput{Title: "Final", Notes: "ship it"})
	require.NoError(t, err)
	assert.Equal(t, project.ID, updated.ID)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "ship it", updated.Notes)

	require.NoError(t, svc.Delete(ctx, "owner-1", project.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "owner-1", project.ID), apperrors.ErrNotFound)
}

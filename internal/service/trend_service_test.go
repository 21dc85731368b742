package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "reelforge/internal/errors"
	"reelforge/internal/events"
	"reelforge/internal/model"
	"reelforge/internal/repository/memory"
)

func hookInput(title string) TrendInput {
	return TrendInput{
		Title:           title,
		Description:     "Open on the payoff, then rewind.",
		EditingTemplate: "0-1s payoff, 1-6s build, 6-8s loop",
	}
}

func newTestLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestTrendService_UpsertValidation(t *testing.T) {
	tests := []struct {
		name  string
		input TrendInput
	}{
		{"missing title", TrendInput{Description: "d", EditingTemplate: "e"}},
		{"whitespace description", TrendInput{Title: "t", Description: "   ", EditingTemplate: "e"}},
		{"missing editing template", TrendInput{Title: "t", Description: "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTrendRepository)
			svc := NewTrendService(repo, nil, nil, newTestLogger())

			_, _, err := svc.Upsert(context.Background(), "", tt.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, "Title, description and editing template are required.", err.Error())

			// validation runs before the id lookup
			_, _, err = svc.Upsert(context.Background(), "missing", tt.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		})
	}
}

func TestTrendService_CreateAppliesDefaults(t *testing.T) {
	svc := NewTrendService(memory.NewTrendRepository(), nil, nil, newTestLogger())

	trend, created, err := svc.Upsert(context.Background(), "", hookInput("Hook A"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, trend.ID)
	assert.Equal(t, model.DefaultTrendPlatform, trend.Platform)
	assert.Equal(t, model.DefaultTrendStatus, trend.Status)
	assert.False(t, trend.CreatedAt.IsZero())
}

func TestTrendService_LongFreeFormFields(t *testing.T) {
	repo := memory.NewTrendRepository()
	svc := NewTrendService(repo, nil, nil, newTestLogger())

	in := hookInput(strings.Repeat("Hook ", 200))
	in.Niche = strings.Repeat("n", 300)
	in.SourceURL = "https://example.com/" + strings.Repeat("p", 3000)

	trend, created, err := svc.Upsert(context.Background(), "", in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, trend.Title, 1000)

	stored, err := repo.FindByID(context.Background(), trend.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Title, stored.Title)
	assert.Equal(t, in.SourceURL, stored.SourceURL)
}

func TestTrendService_UpdateKeepsIdentity(t *testing.T) {
	repo := memory.NewTrendRepository()
	svc := NewTrendService(repo, nil, nil, newTestLogger())
	ctx := context.Background()

	first, _, err := svc.Upsert(ctx, "", hookInput("Hook A"))
	require.NoError(t, err)
	in := hookInput("Hook A2")
	in.Platform = "TikTok"

	second, created, err := svc.Upsert(ctx, first.ID, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Hook A2", second.Title)
	assert.Equal(t, "TikTok", second.Platform)

	// blank optional fields fall back to defaults on update as well
	third, _, err := svc.Upsert(ctx, first.ID, hookInput("Hook A3"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTrendPlatform, third.Platform)

	trends, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, "Hook A3", trends[0].Title)
}

func TestTrendService_UpdateMissingIDDoesNotCreate(t *testing.T) {
	repo := memory.NewTrendRepository()
	svc := NewTrendService(repo, nil, nil, newTestLogger())

	_, _, err := svc.Upsert(context.Background(), "does-not-exist", hookInput("Ghost"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Trend not found for update", err.Error())
	assert.Equal(t, 0, repo.Len())
}

func TestTrendService_CreatesGetFreshIDs(t *testing.T) {
	svc := NewTrendService(memory.NewTrendRepository(), nil, nil, newTestLogger())
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		trend, created, err := svc.Upsert(ctx, "", hookInput("Same title"))
		require.NoError(t, err)
		assert.True(t, created)
		assert.False(t, seen[trend.ID])
		seen[trend.ID] = true
	}

	trends, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, trends, 5)
}

func TestTrendService_ListNewestFirst(t *testing.T) {
	svc := NewTrendService(memory.NewTrendRepository(), nil, nil, newTestLogger())
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, title := range []string{"one", "two", "three"} {
		_, _, err := svc.Upsert(ctx, "", hookInput(title))
		require.NoError(t, err)
	}

	trends, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, trends, 3)
	assert.Equal(t, []string{"three", "two", "one"}, []string{trends[0].Title, trends[1].Title, trends[2].Title})
}

func TestTrendService_DeleteTwice(t *testing.T) {
	svc := NewTrendService(memory.NewTrendRepository(), nil, nil, newTestLogger())
	ctx := context.Background()

	trend, _, err := svc.Upsert(ctx, "", hookInput("Hook A"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, trend.ID))

	err = svc.Delete(ctx, trend.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Trend not found", err.Error())
}

func TestTrendService_PublishesEvents(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("PublishTrendChanged", events.SubjectTrendCreated, mock.AnythingOfType("*model.Trend")).Return(nil).Once()
	publisher.On("PublishTrendChanged", events.SubjectTrendUpdated, mock.AnythingOfType("*model.Trend")).Return(nil).Once()
	publisher.On("PublishTrendDeleted", mock.AnythingOfType("string")).Return(nil).Once()

	svc := NewTrendService(memory.NewTrendRepository(), nil, publisher, newTestLogger())
	ctx := context.Background()

	trend, _, err := svc.Upsert(ctx, "", hookInput("Hook A"))
	require.NoError(t, err)
	_, _, err = svc.Upsert(ctx, trend.ID, hookInput("Hook A2"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, trend.ID))

	publisher.AssertExpectations(t)
}

func TestTrendService_PublishFailureDoesNotFailRequest(t *testing.T) {
	logger, hook := test.NewNullLogger()
	publisher := new(MockPublisher)
	publisher.On("PublishTrendChanged", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed"))

	svc := NewTrendService(memory.NewTrendRepository(), nil, publisher, logger)

	trend, created, err := svc.Upsert(context.Background(), "", hookInput("Hook A"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, trend.ID)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestTrendService_StorageFailures(t *testing.T) {
	repo := new(MockTrendRepository)
	repo.On("List", mock.Anything).Return(nil, errors.New("timeout"))
	repo.On("Delete", mock.Anything, "t1").Return(errors.New("timeout"))
	repo.On("FindByID", mock.Anything, "t2").Return(nil, gorm.ErrInvalidDB)

	svc := NewTrendService(repo, nil, nil, newTestLogger())
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.EqualError(t, err, "list trends: timeout")

	err = svc.Delete(ctx, "t1")
	assert.EqualError(t, err, "delete trend: timeout")
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))

	_, _, err = svc.Upsert(ctx, "t2", hookInput("x"))
	assert.ErrorIs(t, err, gorm.ErrInvalidDB)
}

func TestTrendService_ListIsCachedUntilWrite(t *testing.T) {
	repo := memory.NewTrendRepository()
	listCache := newMapCache()
	svc := NewTrendService(repo, listCache, nil, newTestLogger())
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, "", hookInput("Hook A"))
	require.NoError(t, err)
	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// rows written behind the service stay hidden until a service write
	require.NoError(t, repo.Create(ctx, &model.Trend{Title: "direct"}))
	cached, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	_, _, err = svc.Upsert(ctx, "", hookInput("Hook B"))
	require.NoError(t, err)
	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestTrendService_StaleListLoadedDuringWriteIsNotServed(t *testing.T) {
	repo := new(MockTrendRepository)
	listCache := newMapCache()
	ctx := context.Background()

	var svc TrendService
	stale := []model.Trend{{ID: "t1", Title: "Hook A"}}
	// the first load reads storage, then a delete commits before the list is cached
	repo.On("List", mock.Anything).Return(stale, nil).Once().Run(func(mock.Arguments) {
		require.NoError(t, svc.Delete(ctx, "t1"))
	})
	repo.On("Delete", mock.Anything, "t1").Return(nil).Once()
	repo.On("List", mock.Anything).Return([]model.Trend{}, nil).Once()
	svc = NewTrendService(repo, listCache, nil, newTestLogger())

	first, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, second)

	// served from cache, storage is not read again
	third, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, third)
	repo.AssertExpectations(t)
}

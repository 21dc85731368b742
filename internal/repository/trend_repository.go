package repository

import (
	"context"

	"gorm.io/gorm"

	"reelforge/internal/model"
)

// trendMutableColumns are replaced wholesale on update; id and created_at never change.
var trendMutableColumns = []string{
	"title", "platform", "niche", "hook_type", "description", "editing_template",
	"caption_example", "hashtags", "sound_type", "status", "source_url", "updated_at",
}

// TrendRepository defines trend persistence operations.
type TrendRepository interface {
	Create(ctx context.Context, trend *model.Trend) error
	Update(ctx context.Context, trend *model.Trend) error
	FindByID(ctx context.Context, id string) (*model.Trend, error)
	// List returns all trends, most recently created first.
	List(ctx context.Context) ([]model.Trend, error)
	// Delete removes a trend and returns gorm.ErrRecordNotFound when nothing matched.
	Delete(ctx context.Context, id string) error
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

type trendRepository struct {
	db *gorm.DB
}

// NewTrendRepository creates a new trend repository.
func NewTrendRepository(db *gorm.DB) TrendRepository {
	return &trendRepository{db: db}
}

// Create creates a new trend.
func (r *trendRepository) Create(ctx context.Context, trend *model.Trend) error {
	return r.db.WithContext(ctx).Create(trend).Error
}

// Update replaces every mutable field of an existing trend.
func (r *trendRepository) Update(ctx context.Context, trend *model.Trend) error {
	return r.db.WithContext(ctx).Model(trend).Select(trendMutableColumns).Updates(trend).Error
}

// FindByID finds a trend by ID.
func (r *trendRepository) FindByID(ctx context.Context, id string) (*model.Trend, error) {
	var trend model.Trend
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&trend).Error; err != nil {
		return nil, err
	}
	return &trend, nil
}

func (r *trendRepository) List(ctx context.Context) ([]model.Trend, error) {
	var trends []model.Trend
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&trends).Error; err != nil {
		return nil, err
	}
	return trends, nil
}

func (r *trendRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Trend{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExistsByTitle is used by the seeder to stay idempotent.
func (r *trendRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Trend{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

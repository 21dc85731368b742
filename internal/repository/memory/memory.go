// Package memory provides in-process implementations of the repository
// interfaces. They mirror the GORM repositories' observable behavior, including
// gorm.ErrRecordNotFound and gorm.ErrDuplicatedKey, and back DB_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reelforge/internal/model"
	"reelforge/internal/repository"
)

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.TrendRepository   = (*TrendRepository)(nil)
	_ repository.ProjectRepository = (*ProjectRepository)(nil)
)

// clock is shared by the stores so tests can make creation times deterministic.
type clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// tick returns a strictly increasing timestamp so creation order is preserved
// even when the wall clock does not advance between calls.
func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

func newClock() *clock { return &clock{now: time.Now} }

// UserRepository stores users in memory.
type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]model.User
	clock *clock
}

// NewUserRepository creates an empty user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]model.User{}, clock: newClock()}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	now := r.clock.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	r.byID[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]model.User, 0, len(r.byID))
	for _, u := range r.byID {
		u.PasswordHash = ""
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// TrendRepository stores trends in memory.
type TrendRepository struct {
	mu    sync.RWMutex
	byID  map[string]model.Trend
	clock *clock
}

// NewTrendRepository creates an empty trend store.
func NewTrendRepository() *TrendRepository {
	return &TrendRepository{byID: map[string]model.Trend{}, clock: newClock()}
}

// WithClock replaces the time source; used by tests.
func (r *TrendRepository) WithClock(now func() time.Time) *TrendRepository {
	r.clock = &clock{now: now}
	return r
}

func (r *TrendRepository) Create(ctx context.Context, trend *model.Trend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if trend.ID == "" {
		trend.ID = uuid.NewString()
	}
	if _, exists := r.byID[trend.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	now := r.clock.tick()
	trend.CreatedAt, trend.UpdatedAt = now, now
	r.byID[trend.ID] = *trend
	return nil
}

func (r *TrendRepository) Update(ctx context.Context, trend *model.Trend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[trend.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	trend.CreatedAt = existing.CreatedAt
	trend.UpdatedAt = r.clock.tick()
	r.byID[trend.ID] = *trend
	return nil
}

func (r *TrendRepository) FindByID(ctx context.Context, id string) (*model.Trend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *TrendRepository) List(ctx context.Context) ([]model.Trend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trends := make([]model.Trend, 0, len(r.byID))
	for _, t := range r.byID {
		trends = append(trends, t)
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].CreatedAt.Equal(trends[j].CreatedAt) {
			return trends[i].ID > trends[j].ID
		}
		return trends[i].CreatedAt.After(trends[j].CreatedAt)
	})
	return trends, nil
}

func (r *TrendRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *TrendRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.byID {
		if t.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// Len reports how many trends are stored.
func (r *TrendRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// ProjectRepository stores projects in memory.
type ProjectRepository struct {
	mu    sync.RWMutex
	byID  map[string]model.Project
	clock *clock
}

// NewProjectRepository creates an empty project store.
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{byID: map[string]model.Project{}, clock: newClock()}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := r.clock.tick()
	project.CreatedAt, project.UpdatedAt = now, now
	r.byID[project.ID] = *project
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[project.ID]
	if !ok || existing.OwnerID != project.OwnerID {
		return gorm.ErrRecordNotFound
	}
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = r.clock.tick()
	r.byID[project.ID] = *project
	return nil
}

func (r *ProjectRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	projects := []model.Project{}
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (r *ProjectRepository) DeleteForOwner(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

package repository

import (
	"context"
	"sort"
	"sync"
	"tasktrack/internal/common"
	"tasktrack/internal/domain/model"
	"time"
)

// In-memory implementations of the repositories, backing unit tests and
// local development without a database.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User // keyed by ID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return common.ErrConflict
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := u
	return &found, nil
}

// Delete removes a user record. Not part of UserRepository; tests use it to
// simulate identities removed out of band.
func (r *MemoryUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	users *MemoryUserRepository // for owner projections
}

func NewMemoryTaskRepository(users *MemoryUserRepository) *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: map[string]model.Task{}, users: users}
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	stored := *task
	stored.Owner = nil
	r.tasks[task.ID] = stored
	return nil
}

func (r *MemoryTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	t, ok := r.tasks[id]
	r.mu.RUnlock()
	if !ok {
		return nil, common.ErrNotFound
	}
	found := t
	if owner, err := r.users.FindByID(ctx, t.OwnerID); err == nil {
		found.Owner = &model.TaskOwner{Username: owner.Username, Role: owner.Role}
	}
	return &found, nil
}

func (r *MemoryTaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	tasks := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}
	r.mu.RUnlock()

	for i := range tasks {
		if owner, err := r.users.FindByID(ctx, tasks[i].OwnerID); err == nil {
			tasks[i].Owner = &model.TaskOwner{Username: owner.Username, Role: owner.Role}
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func (r *MemoryTaskRepository) ListByOwner(_ context.Context, ownerID string) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tasks := []model.Task{}
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			tasks = append(tasks, t)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[task.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Title = task.Title
	stored.Description = task.Description
	stored.Completed = task.Completed
	stored.UpdatedAt = time.Now()
	r.tasks[task.ID] = stored
	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func sortTasks(tasks []model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"tasktrack/internal/common"
	"tasktrack/internal/domain/model"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

func (r *pgTaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (id, title, description, completed, owner_id)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, task.ID, task.Title, task.Description, task.Completed, task.OwnerID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Create: %w", err)
	}
	return nil
}

// FindByID returns the task with its owner projection attached.
func (r *pgTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT t.id, t.title, t.description, t.completed, t.owner_id, t.created_at, t.updated_at,
	                 u.username, u.role
	          FROM tasks t JOIN users u ON u.id = t.owner_id
	          WHERE t.id = $1`
	task := &model.Task{Owner: &model.TaskOwner{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.Title, &task.Description, &task.Completed, &task.OwnerID,
		&task.CreatedAt, &task.UpdatedAt,
		&task.Owner.Username, &task.Owner.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindByID: %w", err)
	}
	return task, nil
}

// ListAll returns every task with owner projections, for admin listings.
func (r *pgTaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	query := `SELECT t.id, t.title, t.description, t.completed, t.owner_id, t.created_at, t.updated_at,
	                 u.username, u.role
	          FROM tasks t JOIN users u ON u.id = t.owner_id
	          ORDER BY t.created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListAll: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task := model.Task{Owner: &model.TaskOwner{}}
		if err := rows.Scan(
			&task.ID, &task.Title, &task.Description, &task.Completed, &task.OwnerID,
			&task.CreatedAt, &task.UpdatedAt,
			&task.Owner.Username, &task.Owner.Role,
		); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.ListAll: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *pgTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	query := `SELECT id, title, description, completed, owner_id, created_at, updated_at
	          FROM tasks WHERE owner_id = $1
	          ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListByOwner: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task := model.Task{}
		if err := rows.Scan(
			&task.ID, &task.Title, &task.Description, &task.Completed, &task.OwnerID,
			&task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.ListByOwner: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *pgTaskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks SET title = $2, description = $3, completed = $4, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, task.ID, task.Title, task.Description, task.Completed)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

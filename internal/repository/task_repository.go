package repository

import (
	"context"
	"errors"
	"strings"

	"taskflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// TaskFilter holds the optional list-query parameters. The owner scope is
// deliberately NOT part of the filter: it is a mandatory argument of
// ListByOwner so no call site can forget it.
type TaskFilter struct {
	// Status narrows the list to one status. Empty or model.StatusAll means
	// no constraint. Any other value is passed through as a literal equality
	// filter, so a typo silently matches nothing rather than erroring; this
	// mirrors the product's current behavior.
	Status string

	// Search is a case-insensitive contains match against title or
	// description. Empty means no constraint.
	Search string

	// SortBy selects the ordering: "dueDate" (ascending), "priority"
	// (high before medium before low), anything else falls back to newest
	// first.
	SortBy string
}

// Sort keys recognized by ListByOwner.
const (
	SortByDueDate  = "dueDate"
	SortByPriority = "priority"
)

// priorityRank orders the priority enum by rank, not alphabetically. The
// lexical order of the current values coincides with rank under DESC, but
// that is a coincidence the query must not depend on.
const priorityRank = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]model.Task, error)
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) error
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByOwner returns the owner's tasks matching filter, ordered per
// filter.SortBy. The owner_id constraint is applied unconditionally before
// any optional filter; no result may ever contain another owner's task.
// An empty result is a valid, non-error outcome.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	if filter.Status != "" && filter.Status != model.StatusAll {
		q = q.Where("status = ?", filter.Status)
	}

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		q = q.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	switch filter.SortBy {
	case SortByDueDate:
		// ASC places NULL due dates last under the store's default ordering.
		q = q.Order("due_date ASC")
	case SortByPriority:
		q = q.Order(priorityRank)
	default:
		q = q.Order("created_at DESC")
	}

	tasks := []model.Task{}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateOwned applies fields to the task only if it exists and belongs to
// ownerID, as a single conditional statement so a concurrent delete between
// the ownership check and the write cannot resurrect or cross-update rows.
func (r *TaskRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteOwned removes the task only if it belongs to ownerID.
func (r *TaskRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// escapeLike neutralizes LIKE/ILIKE metacharacters in user-supplied search
// text so it is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

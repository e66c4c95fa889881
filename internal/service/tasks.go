package service

import (
	"context"
	"time"

	"tugas-api/internal/models"
)

// CreateTaskParams adalah payload pembuatan task.
type CreateTaskParams struct {
	Summary     string
	Description string
}

// EditTaskParams adalah partial update task. Field kosong tidak ikut
// dikirim ke store.
type EditTaskParams struct {
	Summary     string
	Description string
	Status      string
}

type taskEdit struct {
	Summary     string    `bson:"summary,omitempty"`
	Description string    `bson:"description,omitempty"`
	Status      string    `bson:"status,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at"`
	UpdatedBy   string    `bson:"updated_by,omitempty"`
}

// TaskService membungkus service generik untuk resource task.
type TaskService struct {
	*Service[models.Task]
}

func NewTaskService(store Store, ownershipField string) *TaskService {
	return &TaskService{Service: New[models.Task]("tasks", store, ownershipField)}
}

// Create membuat task baru dengan status awal to_do, dimiliki oleh caller.
func (s *TaskService) Create(ctx context.Context, params CreateTaskParams, commons *Commons) (*models.Task, error) {
	task := &models.Task{
		Summary:     params.Summary,
		Description: params.Description,
		Status:      models.StatusToDo,
		CreatedAt:   time.Now(),
		CreatedBy:   commons.UserID,
	}
	return s.Save(ctx, task)
}

func (s *TaskService) Edit(ctx context.Context, id string, params EditTaskParams, commons *Commons) (*models.Task, error) {
	update := taskEdit{
		Summary:     params.Summary,
		Description: params.Description,
		Status:      params.Status,
		UpdatedAt:   time.Now(),
	}
	if commons != nil {
		update.UpdatedBy = commons.UserID
	}
	return s.UpdateByID(ctx, id, update, UpdateOptions{Commons: commons})
}

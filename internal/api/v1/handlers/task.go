package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"tugas-api/internal/middleware"
	"tugas-api/internal/models"
	"tugas-api/internal/service"
	"tugas-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Task handlers

type createTaskRequest struct {
	Summary     string `json:"summary" validate:"required"`
	Description string `json:"description"`
}

type editTaskRequest struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=to_do in_progress done"`
}

func taskCacheKey(id string) string {
	return fmt.Sprintf("task:%s", id)
}

// CreateTask membuat task baru milik caller dengan status awal to_do.
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	commons := middleware.GetCommons(c)

	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.Create(c.Context(), service.CreateTaskParams{
		Summary:     req.Summary,
		Description: req.Description,
	}, commons)
	if err != nil {
		return err
	}

	logger.AuditLogger.Info("Task created successfully", zap.String("task_id", task.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  fiber.StatusCreated,
		"data":    task,
	})
}

// ListTasks mengembalikan daftar task milik caller (admin melihat semua),
// dengan pagination dan search pada summary. Hasil detail per task
// disimpan ke Redis untuk dipakai GetTask.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	commons := middleware.GetCommons(c)
	opts := listOptions(c)
	opts.SearchIn = []string{"summary"}
	opts.Commons = commons

	result, err := h.tasks.GetAll(c.Context(), opts)
	if err != nil {
		return err
	}

	// Simpan ke Redis dengan waktu kadaluarsa 1 jam
	if h.cache != nil {
		for _, task := range result.Results {
			jsonData, err := json.Marshal(task)
			if err != nil {
				continue
			}
			if err := h.cache.Set(c.Context(), taskCacheKey(task.ID), jsonData, time.Hour).Err(); err != nil {
				logger.ErrorLogger.Error("Error caching task", zap.Error(err))
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    result,
	})
}

// GetTask mengembalikan detail satu task. Cache Redis dicek lebih dulu;
// cache hit tetap diperiksa kepemilikannya supaya tidak bocor antar user.
func (h *Handler) GetTask(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := models.CheckObjectID(id); err != nil {
		return err
	}
	commons := middleware.GetCommons(c)

	if h.cache != nil && c.Query("fields") == "" {
		cached, err := h.cache.Get(c.Context(), taskCacheKey(id)).Result()
		if err == nil {
			var task models.Task
			if err := json.Unmarshal([]byte(cached), &task); err == nil && task.DeletedAt == nil {
				if commons.UserRole == models.RoleAdmin || task.CreatedBy == commons.UserID {
					return c.JSON(fiber.Map{
						"message": "Task fetched successfully",
						"success": true,
						"status":  fiber.StatusOK,
						"data":    task,
					})
				}
			}
		}
	}

	task, err := h.tasks.GetByID(c.Context(), id, service.Options{
		FieldsLimit: c.Query("fields"),
		Commons:     commons,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Task fetched successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    task,
	})
}

// UpdateTask mengubah task milik caller.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := models.CheckObjectID(id); err != nil {
		return err
	}
	commons := middleware.GetCommons(c)

	var req editTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in update task", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.Edit(c.Context(), id, service.EditTaskParams{
		Summary:     req.Summary,
		Description: req.Description,
		Status:      req.Status,
	}, commons)
	if err != nil {
		return err
	}

	// Cache lama tidak valid lagi setelah update.
	if h.cache != nil {
		_ = h.cache.Del(c.Context(), taskCacheKey(id)).Err()
	}

	logger.AuditLogger.Info("Task updated", zap.String("task_id", id))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    task,
	})
}

// DeleteTask melakukan soft delete terhadap task milik caller.
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := models.CheckObjectID(id); err != nil {
		return err
	}
	commons := middleware.GetCommons(c)

	if _, err := h.tasks.SoftDeleteByID(c.Context(), id, service.Options{Commons: commons}); err != nil {
		return err
	}
	if h.cache != nil {
		_ = h.cache.Del(c.Context(), taskCacheKey(id)).Err()
	}

	logger.AuditLogger.Info("Task deleted", zap.String("task_id", id), zap.String("deleted_by", commons.UserID))
	return c.SendStatus(fiber.StatusNoContent)
}

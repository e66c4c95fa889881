package handlers

import (
	"tugas-api/internal/middleware"
	"tugas-api/internal/models"
	"tugas-api/internal/service"
	"tugas-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// User handlers

type editUserRequest struct {
	Fullname string `json:"fullname"`
	Phone    string `json:"phone"`
}

// GetMe mengembalikan profil user yang sedang login.
func (h *Handler) GetMe(c *fiber.Ctx) error {
	commons := middleware.GetCommons(c)
	user, err := h.users.GetByID(c.Context(), commons.UserID, service.Options{
		FieldsLimit: c.Query("fields"),
		Commons:     commons,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "User fetched successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    user,
	})
}

// EditMe mengubah profil user yang sedang login.
func (h *Handler) EditMe(c *fiber.Ctx) error {
	commons := middleware.GetCommons(c)
	return h.editUser(c, commons.UserID)
}

// GetAllUsers mengembalikan daftar user dengan pagination. Hanya admin.
func (h *Handler) GetAllUsers(c *fiber.Ctx) error {
	commons := middleware.GetCommons(c)
	opts := listOptions(c)
	opts.SearchIn = []string{"fullname", "email"}
	opts.Commons = commons

	result, err := h.users.GetAll(c.Context(), opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Users fetched successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    result,
	})
}

// GetUser mengembalikan detail satu user. Hanya admin.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := models.CheckObjectID(id); err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Context(), id, service.Options{
		FieldsLimit: c.Query("fields"),
		Commons:     middleware.GetCommons(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "User fetched successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    user,
	})
}

// UpdateUser mengubah profil user lain. Hanya admin.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := models.CheckObjectID(id); err != nil {
		return err
	}
	return h.editUser(c, id)
}

// DeleteUser melakukan soft delete terhadap user. Hanya admin.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := models.CheckObjectID(id); err != nil {
		return err
	}
	commons := middleware.GetCommons(c)
	if _, err := h.users.SoftDeleteByID(c.Context(), id, service.Options{Commons: commons}); err != nil {
		return err
	}
	logger.AuditLogger.Info("User deleted", zap.String("user_id", id), zap.String("deleted_by", commons.UserID))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) editUser(c *fiber.Ctx, id string) error {
	var req editUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in edit user", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Bad request")
	}
	if req.Phone != "" {
		if err := models.CheckPhone(req.Phone); err != nil {
			return err
		}
	}

	commons := middleware.GetCommons(c)
	user, err := h.users.Edit(c.Context(), id, service.EditUserParams{
		Fullname: req.Fullname,
		Phone:    req.Phone,
	}, commons)
	if err != nil {
		return err
	}
	logger.AuditLogger.Info("User updated", zap.String("user_id", id))
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    user,
	})
}

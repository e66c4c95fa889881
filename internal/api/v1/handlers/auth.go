package handlers

import (
	"tugas-api/internal/apperrors"
	"tugas-api/internal/models"
	"tugas-api/internal/service"
	"tugas-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Auth handlers

type registerRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register membuat user baru dengan role default "user" dan langsung
// mengembalikan bearer token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// Validasi format di boundary; setelah ini semua layer bekerja dengan
	// data yang sudah bersih.
	if err := models.CheckEmail(req.Email); err != nil {
		return err
	}
	if req.Phone != "" {
		if err := models.CheckPhone(req.Phone); err != nil {
			return err
		}
	}
	if len(req.Password) < h.cfg.MinPasswordLength {
		return apperrors.InvalidPasswordLength(h.cfg.MinPasswordLength)
	}

	user, err := h.users.Register(c.Context(), service.RegisterParams{
		Fullname: req.Fullname,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	token, err := h.tokens.CreateAccessToken(user.ID, user.Type)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return err
	}

	logger.AuditLogger.Info("User registered successfully", zap.String("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"success": true,
		"status":  fiber.StatusCreated,
		"data": fiber.Map{
			"user":  user,
			"token": token,
		},
	})
}

// Login memverifikasi email dan password lalu menerbitkan token baru.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Bad request")
	}
	if err := h.validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user, err := h.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		logger.SecurityLogger.Warn("Login failed", zap.String("email", req.Email))
		return err
	}

	token, err := h.tokens.CreateAccessToken(user.ID, user.Type)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return err
	}

	logger.AuditLogger.Info("Login success", zap.String("user_id", user.ID), zap.String("role", user.Type))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Login success",
		"success": true,
		"status":  fiber.StatusCreated,
		"data": fiber.Map{
			"user":  user,
			"token": token,
		},
	})
}

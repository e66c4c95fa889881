package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"tugas-api/internal/apperrors"
	"tugas-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger mencatat request masuk dan me-recover panic dari handler.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				errMsg := fmt.Sprintf("Recovered from panic: %v", r)
				stack := string(debug.Stack())
				logger.ErrorLogger.Error(errMsg, zap.String("stack", stack))
				_ = c.Status(fiber.StatusInternalServerError).JSON(apperrors.SomethingWentWrong())
			}
		}()
		logger.RequestLogger.Info("Incoming request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
		)
		return c.Next()
	}
}

// HandleError adalah satu-satunya tempat error dirender ke response.
// Dipasang sebagai fiber.Config.ErrorHandler; semua layer di bawahnya
// cukup mengembalikan error apa adanya.
func HandleError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Status == fiber.StatusNotModified {
			return c.SendStatus(fiber.StatusNotModified)
		}
		return c.Status(appErr.Status).JSON(appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"type":   "middlewares/error/http",
			"title":  fiberErr.Message,
			"status": fiberErr.Code,
			"detail": fiberErr.Message,
		})
	}

	// Kegagalan tak terduga (koneksi store, decode, dll) dipetakan ke 500
	// generik tanpa membocorkan detail internal.
	logger.ErrorLogger.Error("Unhandled error", zap.Error(err))
	fallback := apperrors.SomethingWentWrong()
	return c.Status(fallback.Status).JSON(fallback)
}

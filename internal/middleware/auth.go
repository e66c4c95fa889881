package middleware

import (
	"strings"

	"tugas-api/internal/apperrors"
	"tugas-api/internal/auth"
	"tugas-api/internal/models"
	"tugas-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// key locals untuk identitas caller.
const commonsKey = "commons"

// RequireAuth adalah gate akses per-endpoint. Endpoint public cukup tidak
// memasang middleware ini. Token di-resolve sekali di sini, lalu identitas
// caller disimpan sebagai nilai immutable di locals sebelum handler jalan;
// kegagalan gate menghentikan request tanpa menyentuh handler.
func RequireAuth(tokens *auth.TokenService, requireAdmin bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperrors.Unauthorized()
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return apperrors.Unauthorized()
		}
		commons, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			return err
		}
		if requireAdmin && commons.UserRole != models.RoleAdmin {
			return apperrors.Forbidden()
		}
		c.Locals(commonsKey, commons)
		return c.Next()
	}
}

// GetCommons mengambil identitas caller yang sudah di-resolve gate.
// Mengembalikan nil untuk endpoint public.
func GetCommons(c *fiber.Ctx) *service.Commons {
	commons, _ := c.Locals(commonsKey).(*service.Commons)
	return commons
}

package v1

import (
	"tugas-api/internal/api/v1/handlers"
	"tugas-api/internal/auth"
	"tugas-api/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *handlers.Handler, tokens *auth.TokenService) {
	api := app.Group("/api/v1")

	// Public
	api.Get("/health", h.Health)
	api.Post("/users/register", h.Register)
	api.Post("/users/login", h.Login)

	// User (authenticated)
	api.Get("/users/me", middleware.RequireAuth(tokens, false), h.GetMe)
	api.Put("/users/me", middleware.RequireAuth(tokens, false), h.EditMe)

	// User admin-only
	adminUsers := api.Group("/users", middleware.RequireAuth(tokens, true))
	adminUsers.Get("/", h.GetAllUsers)
	adminUsers.Get("/:id", h.GetUser)
	adminUsers.Put("/:id", h.UpdateUser)
	adminUsers.Delete("/:id", h.DeleteUser)

	// Task (authenticated, dibatasi ownership di service layer)
	taskRoutes := api.Group("/tasks", middleware.RequireAuth(tokens, false))
	taskRoutes.Post("/", h.CreateTask)
	taskRoutes.Get("/", h.ListTasks)
	taskRoutes.Get("/:id", h.GetTask)
	taskRoutes.Put("/:id", h.UpdateTask)
	taskRoutes.Delete("/:id", h.DeleteTask)
}

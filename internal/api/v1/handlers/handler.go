package handlers

import (
	"tugas-api/configs"
	"tugas-api/internal/auth"
	"tugas-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// Handler memegang semua dependency yang dibutuhkan endpoint. Dibuat sekali
// di main dan di-inject lewat constructor, tidak ada state global.
type Handler struct {
	users    *service.UserService
	tasks    *service.TaskService
	tokens   *auth.TokenService
	cache    *redis.Client
	validate *validator.Validate
	cfg      configs.Config
}

func New(users *service.UserService, tasks *service.TaskService, tokens *auth.TokenService, cache *redis.Client, cfg configs.Config) *Handler {
	return &Handler{
		users:    users,
		tasks:    tasks,
		tokens:   tokens,
		cache:    cache,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// listOptions membaca parameter pagination standar dari query string.
// Semua query param ikut diteruskan sebagai filter; key pagination akan
// dibuang lagi oleh adapter sebelum jadi filter store.
func listOptions(c *fiber.Ctx) service.ListOptions {
	filter := bson.M{}
	for key, value := range c.Queries() {
		filter[key] = value
	}
	return service.ListOptions{
		Filter:      filter,
		Search:      c.Query("search"),
		Page:        int64(c.QueryInt("page", 1)),
		Limit:       int64(c.QueryInt("limit", 20)),
		FieldsLimit: c.Query("fields"),
		SortBy:      c.Query("sort_by", "created_at"),
		OrderBy:     c.Query("order_by", "desc"),
	}
}

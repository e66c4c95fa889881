package models

import (
	"regexp"
	"time"

	"tugas-api/internal/apperrors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role user yang dikenal sistem.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Status task.
const (
	StatusToDo       = "to_do"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

var (
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,10}\b`)
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
)

type User struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Fullname  string     `json:"fullname" bson:"fullname"`
	Email     string     `json:"email" bson:"email"`
	Phone     string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Password  []byte     `json:"-" bson:"password"`
	Type      string     `json:"type" bson:"type"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	CreatedBy string     `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	UpdatedBy string     `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
	DeletedBy string     `json:"deleted_by,omitempty" bson:"deleted_by,omitempty"`
}

type Task struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Summary     string     `json:"summary" bson:"summary"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      string     `json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
	DeletedBy   string     `json:"deleted_by,omitempty" bson:"deleted_by,omitempty"`
}

// CheckObjectID memvalidasi format id sebelum sampai ke service layer.
func CheckObjectID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperrors.InvalidObjectID(id)
	}
	return nil
}

func CheckEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return apperrors.InvalidEmail(email)
	}
	return nil
}

// CheckPhone memvalidasi nomor telepon, harus 10 digit angka.
func CheckPhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return apperrors.InvalidPhone(phone)
	}
	return nil
}

func CheckDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperrors.InvalidDate(date)
	}
	return nil
}

func ValidTaskStatus(status string) bool {
	switch status {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

package apperrors

import (
	"fmt"
	"strings"
)

// Error adalah bentuk error terstruktur yang dikirim ke client.
// Semua layer membiarkan error ini naik sampai error handler di fiber.Config.
type Error struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Type, e.Status, e.Detail)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func NotFound(serviceName, item string) *Error {
	return &Error{
		Type:   serviceName + "/warning/not-found",
		Status: 404,
		Title:  "Not found.",
		Detail: fmt.Sprintf("%s with %s could not be found.", capitalize(serviceName), item),
	}
}

func NotModified(serviceName string) *Error {
	return &Error{
		Type:   serviceName + "/warning/not-modified",
		Status: 304,
		Title:  "Not modified.",
		Detail: "Content has not changed since the last request. No update needed.",
	}
}

func Conflict(serviceName, item string) *Error {
	return &Error{
		Type:   serviceName + "/warning/conflict",
		Status: 409,
		Title:  "Conflict.",
		Detail: fmt.Sprintf("The %s data already exists. Please provide other data and try again.", item),
	}
}

func InvalidObjectID(id string) *Error {
	return &Error{
		Type:   "core/info/invalid-object-id",
		Status: 400,
		Title:  "Invalid ID format.",
		Detail: fmt.Sprintf("The id %s is not a valid object id. Please provide a valid object id and try again.", id),
	}
}

func InvalidEmail(email string) *Error {
	return &Error{
		Type:   "core/info/invalid-email",
		Status: 400,
		Title:  "Invalid email format.",
		Detail: fmt.Sprintf("The %s is not a valid email. Please provide a valid email and try again.", email),
	}
}

func InvalidPhone(phone string) *Error {
	return &Error{
		Type:   "core/info/invalid-phone",
		Status: 400,
		Title:  "Invalid phone format.",
		Detail: fmt.Sprintf("The %s is not a valid phone. Please provide a valid phone with 10 number and try again.", phone),
	}
}

func InvalidDate(date string) *Error {
	return &Error{
		Type:   "core/info/invalid-date",
		Status: 400,
		Title:  "Invalid date format.",
		Detail: fmt.Sprintf("The %s is not a valid date. Please provide a valid date with YYYY-MM-DD format and try again.", date),
	}
}

func InvalidPasswordLength(minLength int) *Error {
	return &Error{
		Type:   "users/info/invalid-password-length",
		Status: 400,
		Title:  "Invalid password length.",
		Detail: fmt.Sprintf("The password must be at least %d characters long.", minLength),
	}
}

func Unauthorized() *Error {
	return &Error{
		Type:   "core/warning/unauthorize",
		Status: 401,
		Title:  "Unauthorize.",
		Detail: "Could not authorize credentials",
	}
}

func Forbidden() *Error {
	return &Error{
		Type:   "core/warning/forbidden",
		Status: 403,
		Title:  "Forbidden.",
		Detail: "You do not have permission to access this resource.",
	}
}

func SomethingWentWrong() *Error {
	return &Error{
		Type:   "middlewares/error/something-went-wrong",
		Status: 500,
		Title:  "Something went wrong.",
		Detail: "An unexpected error occurred. Please try again later.",
	}
}

package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

// AppError carries an HTTP status alongside the message so the error handler
// middleware can map service failures without type sniffing at every site.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// JSON error envelope. Unclassified errors become 500s with a generic message
// so internals never leak to clients.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var appErr *AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			message = appErr.Message
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(code).JSON(Response[any]{
			Status:  "error",
			Message: message,
		})
	}
}

var validate = validator.New()

// ValidateRequest checks struct tags and folds violations into one
// client-error message.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return NewAppError(fiber.StatusBadRequest, "Invalid request body")
	}

	problems := make([]string, len(validationErrs))
	for i, fieldErr := range validationErrs {
		problems[i] = fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Field(), fieldErr.Tag())
	}
	return NewAppError(fiber.StatusBadRequest, "Validation failed: "+strings.Join(problems, "; "))
}

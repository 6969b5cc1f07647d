package http

import (
	"errors"
	"fmt"
	"strings"

	"hotseat/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const bodyKey = "validatedBody"

var validate = newValidator()

// newValidator adds the "square" tag: an algebraic name such as e2
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("square", func(fl validator.FieldLevel) bool {
		_, err := core.ParseSquare(fl.Field().String())
		return err == nil
	})
	return v
}

// bodyRoutes maps method and path suffix to the request shape it carries
var bodyRoutes = []struct {
	method string
	suffix string
	body   func() any
}{
	{fiber.MethodPost, "/select", func() any { return &core.SelectRequest{} }},
	{fiber.MethodPost, "/moves", func() any { return &core.MoveRequest{} }},
	{fiber.MethodPut, "/theme", func() any { return &core.ThemeRequest{} }},
}

// validationMiddleware decodes and validates JSON bodies, leaving the result in Locals
func validationMiddleware(c *fiber.Ctx) error {
	var body any
	for _, r := range bodyRoutes {
		if c.Method() == r.method && strings.HasSuffix(c.Path(), r.suffix) {
			body = r.body()
			break
		}
	}
	if body == nil {
		return c.Next()
	}

	if err := c.BodyParser(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := validate.Struct(body); err != nil {
		details := err.Error()
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details = describe(fieldErrs)
		}
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: details,
		})
	}

	c.Locals(bodyKey, body)
	return c.Next()
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "square":
			parts = append(parts, fmt.Sprintf("%s must be a square a1-h8, got %q", field, fe.Value()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// validatedBody returns the body decoded by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (*T, error) {
	body, ok := c.Locals(bodyKey).(*T)
	if !ok || body == nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "request body was not validated")
	}
	return body, nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

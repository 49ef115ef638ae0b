package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/translate"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error *llm.ServiceError `json:"error"`
}

// statusForKind maps a ServiceError kind to the HTTP status the API answers with.
func statusForKind(kind llm.ErrorKind) int {
	switch kind {
	case llm.ErrorParam, llm.ErrorUnsupportedLanguage:
		return fiber.StatusBadRequest
	case llm.ErrorSecretKey:
		return fiber.StatusUnauthorized
	case llm.ErrorNotFound:
		return fiber.StatusNotFound
	case llm.ErrorNetwork, llm.ErrorAPI:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// toServiceError normalizes any error from a translation into a ServiceError.
func toServiceError(err error) *llm.ServiceError {
	if errors.Is(err, translate.ErrCancelled) {
		return llm.NewServiceError(llm.ErrorNetwork, "请求已取消").WithCause(err)
	}
	return llm.ToServiceError(err)
}

// writeError answers with the ServiceError for err.
func writeError(c *fiber.Ctx, err error) error {
	se := toServiceError(err)
	status := statusForKind(se.Kind)
	if errors.Is(err, translate.ErrCancelled) {
		status = fiber.StatusRequestTimeout
	}
	return c.Status(status).JSON(ErrorResponse{Error: se})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: llm.NewServiceError(llm.ErrorParam, msg)})
}

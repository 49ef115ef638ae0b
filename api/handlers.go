package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/lingo/pkg/lang"
	"github.com/papercomputeco/lingo/pkg/llm"
	"github.com/papercomputeco/lingo/pkg/storage"
)

// maxHistoryLimit caps the page size of /v1/history.
const maxHistoryLimit = 500

// HistoryResponse is a page of translation records, newest first.
type HistoryResponse struct {
	Records []*storage.Record `json:"records"`
	Count   int               `json:"count"`
	Total   int               `json:"total"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleLanguages lists the supported language codes and names.
func (s *Server) handleLanguages(c *fiber.Ctx) error {
	return c.JSON(lang.Supported())
}

// handleListHistory returns stored translations.
func (s *Server) handleListHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", storage.DefaultListLimit)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > maxHistoryLimit || offset < 0 {
		return badRequest(c, "invalid limit or offset")
	}

	ctx := c.Context()
	records, err := s.storer.List(ctx, storage.ListOptions{
		Limit:    limit,
		Offset:   offset,
		Provider: c.Query("provider"),
	})
	if err != nil {
		s.logger.Error("failed to list history", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: llm.NewServiceError(llm.ErrorUnknown, "failed to list history")})
	}

	total, err := s.storer.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count history", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: llm.NewServiceError(llm.ErrorUnknown, "failed to count history")})
	}

	return c.JSON(HistoryResponse{
		Records: records,
		Count:   len(records),
		Total:   total,
	})
}

// handleGetHistory returns a single translation record by id.
func (s *Server) handleGetHistory(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "id parameter required")
	}

	rec, err := s.storer.Get(c.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: llm.NewServiceError(llm.ErrorNotFound, "record not found")})
	}
	if err != nil {
		s.logger.Error("failed to get history record", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: llm.NewServiceError(llm.ErrorUnknown, "failed to get record")})
	}

	return c.JSON(rec)
}

package controller

import (
	"errors"

	"ai-blog-summarizer-be/internal/service"
	"ai-blog-summarizer-be/pkg/embedding"
	"ai-blog-summarizer-be/pkg/summarizer"

	"github.com/gofiber/fiber/v2"
)

// toHTTPError maps service and core errors onto fiber errors.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyText),
		errors.Is(err, summarizer.ErrEmptyInput),
		errors.Is(err, embedding.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDocumentNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateDocument):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmbeddingDegraded),
		errors.Is(err, service.ErrVectorIndexMissing):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, summarizer.ErrSummarizationFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return err
}

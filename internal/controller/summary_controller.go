package controller

import (
	"ai-blog-summarizer-be/internal/dto"
	"ai-blog-summarizer-be/internal/pkg/serverutils"
	"ai-blog-summarizer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISummaryController interface {
	RegisterRoutes(r fiber.Router)
	Enqueue(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	SummarizeSync(ctx *fiber.Ctx) error
	Embed(ctx *fiber.Ctx) error
}

type summaryController struct {
	summarizationService service.ISummarizationService
}

func NewSummaryController(summarizationService service.ISummarizationService) ISummaryController {
	return &summaryController{
		summarizationService: summarizationService,
	}
}

func (c *summaryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/summaries")
	h.Post("", c.Enqueue)
	h.Post("sync", c.SummarizeSync)
	h.Get(":id", c.Status)

	r.Post("/embeddings", c.Embed)
}

func (c *summaryController) Enqueue(ctx *fiber.Ctx) error {
	var req dto.EnqueueSummaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := c.summarizationService.Enqueue(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Summarization job queued", res))
}

func (c *summaryController) Status(ctx *fiber.Ctx) error {
	res, err := c.summarizationService.GetStatus(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}
	// not_found is a status, not an HTTP error
	return ctx.JSON(serverutils.SuccessResponse("Summarization job status", res))
}

func (c *summaryController) SummarizeSync(ctx *fiber.Ctx) error {
	var req dto.SyncSummaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.summarizationService.Summarize(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Summary generated", res))
}

func (c *summaryController) Embed(ctx *fiber.Ctx) error {
	var req dto.EmbeddingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.summarizationService.GenerateEmbedding(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Embedding generated", res))
}

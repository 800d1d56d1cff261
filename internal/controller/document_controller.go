package controller

import (
	"ai-blog-summarizer-be/internal/dto"
	"ai-blog-summarizer-be/internal/pkg/serverutils"
	"ai-blog-summarizer-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Index(ctx *fiber.Ctx) error
	DeleteIndex(ctx *fiber.Ctx) error
	Backfill(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
	TitleSearch(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	searchService   service.ISearchService
}

func NewDocumentController(documentService service.IDocumentService, searchService service.ISearchService) IDocumentController {
	return &documentController{
		documentService: documentService,
		searchService:   searchService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Get("search", c.Search)
	h.Get("semantic-search", c.SemanticSearch)
	h.Get("title-search", c.TitleSearch)
	h.Post("embeddings/backfill", c.Backfill)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/index", c.Index)
	h.Delete(":id/index", c.DeleteIndex)
}

func (c *documentController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Create(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create document", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.Show(ctx.UserContext(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) Update(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Update(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update document", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	if err := c.documentService.Delete(ctx.UserContext(), id); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}

func (c *documentController) Index(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	if err := c.documentService.IndexDocument(ctx.UserContext(), id); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Document indexed", nil))
}

func (c *documentController) DeleteIndex(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	if err := c.documentService.DeleteDocumentIndex(ctx.UserContext(), id); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Document index deleted", nil))
}

func (c *documentController) Backfill(ctx *fiber.Ctx) error {
	res, err := c.documentService.BackfillEmbeddings(ctx.UserContext())
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Embeddings backfilled", res))
}

func (c *documentController) Search(ctx *fiber.Ctx) error {
	req := dto.SearchDocumentsRequest{
		Query:      ctx.Query("q"),
		SearchType: ctx.Query("type", "hybrid"),
		Limit:      ctx.QueryInt("limit", 0),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.SearchDocuments(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search documents", res))
}

func (c *documentController) SemanticSearch(ctx *fiber.Ctx) error {
	req := dto.SemanticSearchRequest{
		Query:     ctx.Query("q"),
		Threshold: ctx.QueryFloat("threshold", 0),
		Limit:     ctx.QueryInt("limit", 0),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.SemanticSearch(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search", res))
}

func (c *documentController) TitleSearch(ctx *fiber.Ctx) error {
	req := dto.TitleSearchRequest{
		Query:    ctx.Query("q"),
		Strategy: ctx.Query("strategy"),
		Limit:    ctx.QueryInt("limit", 0),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.TitleSearch(ctx.UserContext(), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success title search", res))
}

func parseID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}
	return id, nil
}

package controller

import (
	"github.com/gofiber/fiber/v2"

	"edu-rag-be/internal/dto"
	"edu-rag-be/internal/pkg/serverutils"
	"edu-rag-be/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Topics(ctx *fiber.Ctx) error
	Types(ctx *fiber.Ctx) error
	Metadata(ctx *fiber.Ctx) error
	ChunkContext(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	ingestionService service.IIngestionService
	documentService  service.IDocumentService
}

func NewDocumentController(
	ingestionService service.IIngestionService,
	documentService service.IDocumentService,
) IDocumentController {
	return &documentController{
		ingestionService: ingestionService,
		documentService:  documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("", c.Ingest)
	h.Get("", c.List)
	h.Get("topics", c.Topics)
	h.Get("types", c.Types)
	h.Get("metadata", c.Metadata)
	h.Get("context", c.ChunkContext)
	h.Delete("", c.Delete)
}

func (c *documentController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestionService.Enqueue(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for ingestion", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	res, err := c.documentService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Topics(ctx *fiber.Ctx) error {
	res, err := c.documentService.Topics(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list topics", res))
}

func (c *documentController) Types(ctx *fiber.Ctx) error {
	res, err := c.documentService.Types(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list document types", res))
}

func (c *documentController) Metadata(ctx *fiber.Ctx) error {
	sourceURL := ctx.Query("source_url")
	if sourceURL == "" {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Missing source_url query parameter")
	}

	res, err := c.documentService.Metadata(ctx.Context(), sourceURL)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get document metadata", res))
}

func (c *documentController) ChunkContext(ctx *fiber.Ctx) error {
	sourceURL := ctx.Query("source_url")
	if sourceURL == "" {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Missing source_url query parameter")
	}
	chunkIndex := ctx.QueryInt("chunk_index", -1)
	if chunkIndex < 0 {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Missing or invalid chunk_index query parameter")
	}

	res, err := c.documentService.ChunkContext(ctx.Context(), sourceURL, chunkIndex)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chunk context", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	sourceURL := ctx.Query("source_url")
	if sourceURL == "" {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Missing source_url query parameter")
	}

	res, err := c.documentService.Delete(ctx.Context(), sourceURL)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete document", res))
}

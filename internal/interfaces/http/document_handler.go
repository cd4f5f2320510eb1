package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/Pankajol/aits-erp-core/internal/application/document"
	"github.com/Pankajol/aits-erp-core/internal/application/dto"
	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
)

// DocumentRoute asocia un segmento de ruta con un tipo de documento y su módulo SaaS.
type DocumentRoute struct {
	Slug    string
	DocType string
	Module  string
}

// DocumentRoutes devuelve las rutas de documentos en orden estable, para que el
// router registre cada grupo con el middleware de módulo correcto.
func DocumentRoutes() []DocumentRoute {
	slugs := []struct{ slug, docType string }{
		{"goods-receipts", entity.DocTypeGoodsReceipt},
		{"purchase-orders", entity.DocTypePurchaseOrder},
		{"sales-orders", entity.DocTypeSalesOrder},
		{"sales-invoices", entity.DocTypeSalesInvoice},
		{"deliveries", entity.DocTypeDelivery},
		{"debit-notes", entity.DocTypeDebitNote},
		{"credit-notes", entity.DocTypeCreditNote},
	}
	out := make([]DocumentRoute, 0, len(slugs))
	for _, s := range slugs {
		kind, ok := document.KindFor(s.docType)
		if !ok {
			continue
		}
		out = append(out, DocumentRoute{Slug: s.slug, DocType: kind.DocType, Module: kind.Module})
	}
	return out
}

// DocumentHandler maneja la emisión y consulta de documentos comerciales (protegido).
type DocumentHandler struct {
	submit *document.SubmitDocumentUseCase
	query  *document.QueryUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(submit *document.SubmitDocumentUseCase, query *document.QueryUseCase) *DocumentHandler {
	return &DocumentHandler{submit: submit, query: query}
}

// Submit godoc
// @Summary      Emitir documento comercial
// @Description  Valida referencias y stock, asigna el consecutivo fiscal y aplica los
//	movimientos de inventario en una sola transacción: o todo queda persistido o nada.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitDocumentRequest  true  "party_name, items[], source_order_id (facturas/entregas), attachments[]"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{tipo} [post]
func (h *DocumentHandler) Submit(docType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		userID := GetUserID(c)
		if companyID == "" || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		}
		var in dto.SubmitDocumentRequest
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		out, err := h.submit.Submit(c.Context(), companyID, userID, docType, in)
		if err != nil {
			return writeDocumentError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// GetByID godoc
// @Summary      Obtener documento por ID
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{tipo}/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.query.GetByID(companyID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar documentos de un tipo
// @Description  Con ?number= busca el documento exacto por su consecutivo
//	(p.ej. GRN/2024-25/00007, URL-encoded).
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        number  query  string  false  "Consecutivo exacto"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/documents/{tipo} [get]
func (h *DocumentHandler) List(docType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
		}
		if number := c.Query("number"); number != "" {
			out, err := h.query.GetByNumber(companyID, number)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
				}
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
			}
			return c.JSON(out)
		}
		limit := c.QueryInt("limit", 20)
		offset := c.QueryInt("offset", 0)
		if limit <= 0 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}
		if offset < 0 {
			offset = 0
		}
		out, err := h.query.List(companyID, docType, limit, offset)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return c.JSON(out)
	}
}

// writeDocumentError traduce la taxonomía de errores del submit a HTTP. El orden
// importa: el conflicto de concurrencia se distingue del stock insuficiente aunque
// ambos nazcan de la misma validación.
func writeDocumentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "el stock fue consumido por otra transacción, reintente"})
	case errors.Is(err, domain.ErrInsufficientStock):
		var shortfall *domain.StockShortfallError
		if errors.As(err, &shortfall) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "INSUFFICIENT_STOCK",
				Message: shortfall.Error(),
				Details: shortfallDetails(shortfall),
			})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrBatchMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BATCH_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidReference):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "INVALID_REFERENCE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "número de documento duplicado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// shortfallDetails expone el faltante en campos máquina-legibles para que el
// cliente ajuste la línea ofensora sin parsear el mensaje.
func shortfallDetails(s *domain.StockShortfallError) map[string]string {
	d := map[string]string{
		"item_id":      s.ItemID,
		"warehouse_id": s.WarehouseID,
		"requested":    s.Requested.String(),
		"available":    s.Available.String(),
	}
	if s.BinID != "" {
		d["bin_id"] = s.BinID
	}
	if s.BatchNumber != "" {
		d["batch_number"] = s.BatchNumber
	}
	return d
}

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pankajol/aits-erp-core/internal/application/dto"
	"github.com/Pankajol/aits-erp-core/internal/domain"
)

// errResponse ejecuta writeDocumentError sobre una app mínima y decodifica la salida.
func errResponse(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return writeDocumentError(c, err)
	})
	resp, reqErr := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()
	body, reqErr := io.ReadAll(resp.Body)
	require.NoError(t, reqErr)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestWriteDocumentError_FaltanteConDetalles(t *testing.T) {
	shortfall := &domain.StockShortfallError{
		ItemID:      "item-9",
		WarehouseID: "wh-1",
		BinID:       "A1",
		BatchNumber: "L-7",
		Requested:   decimal.RequireFromString("12"),
		Available:   decimal.RequireFromString("10"),
	}
	status, out := errResponse(t, shortfall)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Equal(t, "item-9", out.Details["item_id"])
	assert.Equal(t, "wh-1", out.Details["warehouse_id"])
	assert.Equal(t, "A1", out.Details["bin_id"])
	assert.Equal(t, "L-7", out.Details["batch_number"])
	assert.Equal(t, "12", out.Details["requested"])
	assert.Equal(t, "10", out.Details["available"])
}

func TestWriteDocumentError_Taxonomia(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: reintente", domain.ErrConcurrencyConflict), fiber.StatusConflict, "CONCURRENCY_CONFLICT"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{fmt.Errorf("%w: lote repetido", domain.ErrBatchMismatch), fiber.StatusBadRequest, "BATCH_MISMATCH"},
		{fmt.Errorf("%w: artículo x", domain.ErrInvalidReference), fiber.StatusNotFound, "INVALID_REFERENCE"},
		{fmt.Errorf("%w: cantidad", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	}
	for _, tc := range cases {
		status, out := errResponse(t, tc.err)
		assert.Equal(t, tc.status, status, tc.code)
		assert.Equal(t, tc.code, out.Code)
		if out.Code != "INSUFFICIENT_STOCK" {
			assert.Empty(t, out.Details, "solo el faltante lleva detalles")
		}
	}
}

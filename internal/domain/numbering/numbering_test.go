package numbering_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Pankajol/aits-erp-core/internal/domain/numbering"
)

// El año fiscal abril–marzo: enero-marzo pertenecen al año fiscal iniciado el año
// calendario anterior; abril en adelante, al del mismo año.
func TestFiscalYearAt_Limites(t *testing.T) {
	cases := []struct {
		fecha string
		start int
		label string
	}{
		{"2024-01-15", 2023, "2023-24"},
		{"2024-03-31", 2023, "2023-24"},
		{"2024-04-01", 2024, "2024-25"},
		{"2024-12-31", 2024, "2024-25"},
		{"2025-02-01", 2024, "2024-25"},
		{"1999-06-10", 1999, "1999-00"},
		{"2099-05-01", 2099, "2099-00"},
	}
	for _, tc := range cases {
		fecha, err := time.Parse("2006-01-02", tc.fecha)
		assert.NoError(t, err)
		fy := numbering.FiscalYearAt(fecha)
		assert.Equal(t, tc.start, fy.Start, "fecha %s", tc.fecha)
		assert.Equal(t, tc.label, fy.Label(), "fecha %s", tc.fecha)
	}
}

func TestCounterKey_IncluyeTipoYAnio(t *testing.T) {
	fy := numbering.FiscalYear{Start: 2024}
	assert.Equal(t, "PurchaseOrder-2024", numbering.CounterKey("PurchaseOrder", fy))
	assert.Equal(t, "GoodsReceipt-2023", numbering.CounterKey("GoodsReceipt", numbering.FiscalYear{Start: 2023}))
}

func TestFormatNumber_RellenoACincoDigitos(t *testing.T) {
	fy := numbering.FiscalYear{Start: 2024}
	assert.Equal(t, "PURCH-ORD/2024-25/00007", numbering.FormatNumber("PURCH-ORD", fy, 7))
	assert.Equal(t, "GRN/2024-25/00001", numbering.FormatNumber("GRN", fy, 1))
	assert.Equal(t, "SALES-INV/2024-25/12345", numbering.FormatNumber("SALES-INV", fy, 12345))
	// Secuencias con más de 5 dígitos no se truncan
	assert.Equal(t, "GRN/2024-25/123456", numbering.FormatNumber("GRN", fy, 123456))
}

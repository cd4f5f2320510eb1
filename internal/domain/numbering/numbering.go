package numbering

import (
	"fmt"
	"time"
)

// FiscalYear representa el año fiscal abril–marzo usado para numerar documentos.
// Start es el año calendario en que inicia (abril); un año fiscal 2024 cubre
// abril 2024 – marzo 2025 y se rotula "2024-25".
type FiscalYear struct {
	Start int
}

// FiscalYearAt calcula el año fiscal vigente en la fecha dada: antes de abril el año
// fiscal inició en el año calendario anterior.
func FiscalYearAt(t time.Time) FiscalYear {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return FiscalYear{Start: year}
}

// Label devuelve el rótulo del año fiscal, ej. "2024-25".
func (fy FiscalYear) Label() string {
	return fmt.Sprintf("%d-%02d", fy.Start, (fy.Start+1)%100)
}

// CounterKey construye la clave de secuencia para un tipo de documento en un año
// fiscal, ej. "PurchaseOrder-2024". Cada clave tiene su propio Counter por empresa.
func CounterKey(docKey string, fy FiscalYear) string {
	return fmt.Sprintf("%s-%d", docKey, fy.Start)
}

// FormatNumber arma el número humano-legible del documento:
// <PREFIJO>/<añoFiscal>/<secuencia a 5 dígitos>, ej. "PURCH-ORD/2024-25/00007".
func FormatNumber(prefix string, fy FiscalYear, seq int64) string {
	return fmt.Sprintf("%s/%s/%05d", prefix, fy.Label(), seq)
}

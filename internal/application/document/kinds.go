package document

import "github.com/Pankajol/aits-erp-core/internal/domain/entity"

// Kind describe el comportamiento de un tipo de documento comercial: qué prefijo y
// contador usa, qué movimiento de inventario genera y qué módulo SaaS lo habilita.
// Toda la variación entre tipos vive en esta tabla; el flujo de submit es uno solo.
type Kind struct {
	DocType    string
	Prefix     string
	CounterKey string

	// MovementType es el efecto de cada línea sobre el ledger (entity.MovementType*).
	MovementType string
	// ReleasesOnOrder: la entrada descuenta lo pendiente por recibir (recepciones).
	ReleasesOnOrder bool
	// AllowsSourceOrder: la salida puede citar un pedido de venta origen y liberar
	// su cantidad comprometida.
	AllowsSourceOrder bool

	// Module es el módulo SaaS que debe estar activo para emitir el documento.
	Module string
}

var kinds = map[string]Kind{
	entity.DocTypeGoodsReceipt: {
		DocType:         entity.DocTypeGoodsReceipt,
		Prefix:          "GRN",
		CounterKey:      "GoodsReceipt",
		MovementType:    entity.MovementTypeIN,
		ReleasesOnOrder: true,
		Module:          entity.ModulePurchasing,
	},
	entity.DocTypePurchaseOrder: {
		DocType:      entity.DocTypePurchaseOrder,
		Prefix:       "PURCH-ORD",
		CounterKey:   "PurchaseOrder",
		MovementType: entity.MovementTypeOnOrder,
		Module:       entity.ModulePurchasing,
	},
	entity.DocTypeSalesOrder: {
		DocType:      entity.DocTypeSalesOrder,
		Prefix:       "SALES-ORD",
		CounterKey:   "SalesOrder",
		MovementType: entity.MovementTypeCommitted,
		Module:       entity.ModuleSales,
	},
	entity.DocTypeSalesInvoice: {
		DocType:           entity.DocTypeSalesInvoice,
		Prefix:            "SALES-INV",
		CounterKey:        "SalesInvoice",
		MovementType:      entity.MovementTypeOUT,
		AllowsSourceOrder: true,
		Module:            entity.ModuleSales,
	},
	entity.DocTypeDelivery: {
		DocType:           entity.DocTypeDelivery,
		Prefix:            "DELIVERY",
		CounterKey:        "Delivery",
		MovementType:      entity.MovementTypeOUT,
		AllowsSourceOrder: true,
		Module:            entity.ModuleSales,
	},
	entity.DocTypeDebitNote: {
		DocType:      entity.DocTypeDebitNote,
		Prefix:       "DEBIT-NOTE",
		CounterKey:   "DebitNote",
		MovementType: entity.MovementTypeOUT,
		Module:       entity.ModulePurchasing,
	},
	entity.DocTypeCreditNote: {
		DocType:      entity.DocTypeCreditNote,
		Prefix:       "CREDIT-NOTE",
		CounterKey:   "CreditNote",
		MovementType: entity.MovementTypeIN,
		Module:       entity.ModuleSales,
	},
}

// KindFor devuelve la definición del tipo de documento.
func KindFor(docType string) (Kind, bool) {
	k, ok := kinds[docType]
	return k, ok
}

// Kinds devuelve todas las definiciones registradas (para routing y documentación).
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k)
	}
	return out
}

package repository

// CounterRepository define el puerto del generador de secuencias por empresa y
// tipo de documento (DIP). Next debe ejecutarse dentro de la transacción del
// documento: si la transacción aborta, el número se revierte y no quedan huecos.
type CounterRepository interface {
	// Next incrementa atómicamente el contador (empresa, clave) y devuelve el
	// nuevo valor. El primer número de una clave es 1.
	Next(companyID, documentKey string) (int64, error)
	// Current devuelve el último número emitido sin incrementarlo (0 si la clave
	// aún no existe).
	Current(companyID, documentKey string) (int64, error)
}

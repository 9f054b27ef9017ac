package inventory

// StockStatus clasificación del nivel de stock de un SKU frente a su mínimo.
type StockStatus string

const (
	StockCritical StockStatus = "critical"
	StockLow      StockStatus = "low"
	StockGood     StockStatus = "good"
	StockExcess   StockStatus = "excess"
)

// Umbrales de clasificación.
const (
	criticalDivisor     = 4   // quantity <= minStock/4 es crítico
	excessMultiplier    = 3   // quantity >= 3*minStock puede ser exceso
	excessTurnoverBelow = 0.5 // ...si además rota poco
)

// ClassifyStock clasifica el stock (servicio de dominio, sin I/O).
//
//	critical: quantity == 0 o 4*quantity <= minStock
//	low:      quantity < minStock
//	excess:   minStock > 0, quantity >= 3*minStock y turnoverRate < 0.5
//	good:     en otro caso
func ClassifyStock(quantity, minStock int64, turnoverRate float64) StockStatus {
	switch {
	case quantity <= 0 || criticalDivisor*quantity <= minStock:
		return StockCritical
	case quantity < minStock:
		return StockLow
	case minStock > 0 && quantity >= excessMultiplier*minStock && turnoverRate < excessTurnoverBelow:
		return StockExcess
	default:
		return StockGood
	}
}

// IsLowStock indica si el registro dispara alerta de stock bajo (quantity < minStock).
func IsLowStock(quantity, minStock int64) bool {
	return quantity < minStock
}

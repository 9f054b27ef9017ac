package entity

import "time"

// InventoryRecord stock actual de un SKU en una ubicación.
// La fila se crea en cero al primer movimiento; nunca se borra, solo llega a cero.
type InventoryRecord struct {
	SKU       string
	Location  Location
	Quantity  int64 // >= 0 siempre
	MinStock  int64 // umbral de alerta de stock bajo
	UpdatedAt time.Time
}

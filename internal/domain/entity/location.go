package entity

// Location identifica una de las dos ubicaciones físicas fijas que mantienen stock.
type Location string

const (
	LocationWarehouse Location = "warehouse" // bodega central
	LocationStore     Location = "store"     // tienda / showroom
)

// Locations devuelve las ubicaciones válidas en orden estable.
func Locations() []Location {
	return []Location{LocationWarehouse, LocationStore}
}

// Valid indica si la ubicación es una de las dos conocidas.
func (l Location) Valid() bool {
	return l == LocationWarehouse || l == LocationStore
}

// ParseLocation convierte texto libre en Location; ok=false si no es válida.
func ParseLocation(s string) (Location, bool) {
	l := Location(s)
	return l, l.Valid()
}

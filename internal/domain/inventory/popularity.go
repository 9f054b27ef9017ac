package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// PopularityCategory cubeta de popularidad derivada del score.
type PopularityCategory string

const (
	PopularityHot     PopularityCategory = "hot"
	PopularityPopular PopularityCategory = "popular"
	PopularityAverage PopularityCategory = "average"
	PopularitySlow    PopularityCategory = "slow"
)

const (
	hotThreshold     = 20.0
	popularThreshold = 10.0
	averageThreshold = 3.0

	outWeight = 2.0 // una salida (venta/demanda) pesa el doble que una entrada
	inWeight  = 1.0
)

// PopularityContribution aporte de un movimiento al score de popularidad:
// w × k con w = max(0, 1 - edadDias/days) y k = 2 (out) o 1 (in).
// Las patas de traslado no aportan: mover stock entre ubicaciones no es demanda.
func PopularityContribution(m *entity.StockMovement, now time.Time, days int) float64 {
	if m == nil || m.IsTransferLeg() || days <= 0 {
		return 0
	}
	ageDays := now.Sub(m.CreatedAt).Hours() / 24
	w := 1 - ageDays/float64(days)
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}
	k := inWeight
	if m.MovementType == entity.MovementOut {
		k = outWeight
	}
	return w * k
}

// CategorizePopularity asigna la cubeta según el score ya redondeado.
func CategorizePopularity(score float64) PopularityCategory {
	switch {
	case score >= hotThreshold:
		return PopularityHot
	case score >= popularThreshold:
		return PopularityPopular
	case score >= averageThreshold:
		return PopularityAverage
	default:
		return PopularitySlow
	}
}

// TurnoverRate rotación = demandOut / max(currentQuantity, 1), redondeada a 2 decimales.
func TurnoverRate(demandOut, currentQuantity int64) float64 {
	if currentQuantity < 1 {
		currentQuantity = 1
	}
	return Round2(float64(demandOut) / float64(currentQuantity))
}

// Round2 redondea a 2 decimales (half away from zero) usando aritmética decimal.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leatherworks/warehouse-api/internal/domain/inventory"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name     string
		qty      int64
		min      int64
		turnover float64
		want     inventory.StockStatus
	}{
		{"sin stock es crítico", 0, 0, 0, inventory.StockCritical},
		{"sin stock con mínimo es crítico", 0, 10, 3, inventory.StockCritical},
		{"cuarta parte del mínimo es crítico", 5, 20, 1, inventory.StockCritical},
		{"apenas sobre la cuarta parte es bajo", 6, 20, 1, inventory.StockLow},
		{"justo bajo el mínimo es bajo", 19, 20, 1, inventory.StockLow},
		{"igual al mínimo es bueno", 20, 20, 0, inventory.StockGood},
		{"triple del mínimo con baja rotación es exceso", 60, 20, 0.49, inventory.StockExcess},
		{"triple del mínimo con buena rotación es bueno", 60, 20, 0.5, inventory.StockGood},
		{"sin mínimo nunca es exceso", 500, 0, 0, inventory.StockGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inventory.ClassifyStock(tt.qty, tt.min, tt.turnover))
		})
	}
}

func TestIsLowStock(t *testing.T) {
	assert.True(t, inventory.IsLowStock(4, 5))
	assert.False(t, inventory.IsLowStock(5, 5))
	assert.False(t, inventory.IsLowStock(0, 0))
}

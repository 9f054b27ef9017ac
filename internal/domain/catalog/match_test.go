package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/domain/catalog"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

func TestNormalizeName_QuitaTildesYEspacios(t *testing.T) {
	assert.Equal(t, "billetera cafe", catalog.NormalizeName("  Billetera   CAFÉ "))
	assert.Equal(t, "cinturon nino", catalog.NormalizeName("Cinturón Niño"))
	assert.Equal(t, "", catalog.NormalizeName("   "))
}

func TestNameIndex_Match(t *testing.T) {
	idx := catalog.NewNameIndex([]*entity.Product{
		{SKU: "BIL-001", Name: "Billetera Café"},
		{SKU: "BIL-002", Name: "Billetera Café Premium"},
		{SKU: "CIN-001", Name: "Cinturón Clásico"},
	})

	p := idx.Match("billetera cafe")
	require.NotNil(t, p)
	assert.Equal(t, "BIL-001", p.SKU, "coincidencia exacta")

	p = idx.Match("Ref 88 - BILLETERA CAFÉ PREMIUM x12")
	require.NotNil(t, p)
	assert.Equal(t, "BIL-002", p.SKU, "gana el nombre contenido más largo")

	assert.Nil(t, idx.Match("Morral de lona"))
	assert.Nil(t, idx.Match(""))
}

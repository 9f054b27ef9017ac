// Package docs expone la definición OpenAPI del servicio para Swagger UI.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var doc string

type spec struct{}

// ReadDoc devuelve el documento OpenAPI embebido.
func (spec) ReadDoc() string { return doc }

func init() {
	swag.Register(swag.Name, spec{})
}

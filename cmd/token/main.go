// token emite un JWT de desarrollo para probar la API localmente.
//
// Uso: go run ./cmd/token -user u-1 -role warehouse [-minutes 120]
// Usa JWT_SECRET y JWT_ISSUER de la configuración (env o .env).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/leatherworks/warehouse-api/pkg/config"
	pkgjwt "github.com/leatherworks/warehouse-api/pkg/jwt"
)

func main() {
	user := flag.String("user", "dev-user", "user_id del token")
	role := flag.String("role", "warehouse", "admin | warehouse | seller")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	exp := *minutes
	if exp <= 0 {
		exp = cfg.JWT.Expiration
	}

	tok, err := pkgjwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}

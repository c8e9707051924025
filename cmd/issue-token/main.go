// issue-token emite un JWT firmado con JWT_SECRET para operar la API (caja, finanzas, admin).
//
// Uso: go run ./cmd/issue-token -user <id> -role cashier|finance|admin
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/warenwelt-api/pkg/config"
	"github.com/jhoicas/warenwelt-api/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "identificador del usuario (obligatorio)")
	role := flag.String("role", jwt.RoleCashier, "rol: cashier, finance o admin")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user es obligatorio")
		os.Exit(2)
	}
	if !jwt.ValidRole(*role) {
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}

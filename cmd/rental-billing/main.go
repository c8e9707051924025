// rental-billing ejecuta una vez la facturación mensual de alquileres de estantes y escribe el
// resultado (facturas generadas y contratos omitidos) como JSON en stdout.
//
// Uso: go run ./cmd/rental-billing [-date YYYY-MM-DD]
// Sin -date factura el mes en curso. Pensado para cron; repetirlo para el mismo mes no duplica.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/warenwelt-api/internal/application/rental"
	"github.com/jhoicas/warenwelt-api/internal/bootstrap"
	domainrental "github.com/jhoicas/warenwelt-api/internal/domain/rental"
	"github.com/jhoicas/warenwelt-api/pkg/config"
	"github.com/jhoicas/warenwelt-api/pkg/logger"
)

func main() {
	dateFlag := flag.String("date", "", "fecha dentro del mes a facturar (YYYY-MM-DD)")
	flag.Parse()

	var target *time.Time
	if *dateFlag != "" {
		d, err := domainrental.ParseDate(*dateFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fecha inválida %q: use YYYY-MM-DD\n", *dateFlag)
			os.Exit(2)
		}
		target = &d
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer storage.Close()

	locker, closeLocker, err := bootstrap.NewLocker(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer closeLocker()

	uc := rental.NewGenerateInvoicesUseCase(storage.Tx, storage.Repos.Contracts, locker, cfg.Billing.InvoiceDueDays, log)
	res, err := uc.GenerateMonthly(ctx, target)
	if err != nil {
		log.Error().Err(err).Msg("facturación mensual")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "escribir resultado: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/warenwelt-api/internal/application/payout"
	"github.com/jhoicas/warenwelt-api/internal/application/rental"
	"github.com/jhoicas/warenwelt-api/internal/application/report"
	"github.com/jhoicas/warenwelt-api/internal/application/sales"
	"github.com/jhoicas/warenwelt-api/internal/bootstrap"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/warenwelt-api/internal/infrastructure/pdf"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/warenwelt-api/internal/interfaces/http"
	"github.com/jhoicas/warenwelt-api/pkg/config"
	"github.com/jhoicas/warenwelt-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
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

	repos := storage.Repos
	generateUC := rental.NewGenerateInvoicesUseCase(storage.Tx, repos.Contracts, locker, cfg.Billing.InvoiceDueDays, log)
	invoiceUC := rental.NewInvoiceUseCase(storage.Tx, repos.Invoices, repos.Contracts, cfg.Billing.InvoiceDueDays)
	contractUC := rental.NewContractUseCase(storage.Tx)

	if !cfg.Mail.Enabled() {
		log.Warn().Msg("SMTP_HOST vacío: los avisos de liquidación quedarán como SKIPPED")
	}
	// PDF: comprobante de liquidación adjunto al aviso y descargable
	statementPDF := infrapdf.NewMarotoPDFGenerator(cfg.App.Name, cfg.Billing.Currency)
	payoutUC := payout.NewUseCase(
		storage.Tx, repos.Suppliers, repos.Payouts,
		mail.NewSMTPNotifier(cfg.Mail), statementPDF, locker,
		payout.Config{
			PreviewLimit:  cfg.Billing.PayoutPreviewLimit,
			Currency:      cfg.Billing.Currency,
			NotifyTimeout: time.Duration(cfg.Mail.Timeout) * time.Second,
		},
		log,
	)
	salesUC := sales.NewUseCase(storage.Tx)
	reportUC := report.NewUseCase(repos.Reports, csvexport.NewRenderer(), xlsx.NewWorkbookRenderer(), report.DATEVAccounts{
		Cash:              cfg.DATEV.CashAccount,
		Card:              cfg.DATEV.CardAccount,
		Voucher:           cfg.DATEV.VoucherAccount,
		Mixed:             cfg.DATEV.MixedAccount,
		RevenueNewWare19:  cfg.DATEV.RevenueNewWare19,
		RevenueNewWare7:   cfg.DATEV.RevenueNewWare7,
		RevenueCommission: cfg.DATEV.RevenueCommission,
	}, cfg.Billing.Currency)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		GenerateInvoices: generateUC,
		RentalInvoices:   invoiceUC,
		RentalContracts:  contractUC,
		Payouts:          payoutUC,
		Sales:            salesUC,
		Reports:          reportUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warenwelt-api/internal/application/payout"
	"github.com/jhoicas/warenwelt-api/internal/application/rental"
	"github.com/jhoicas/warenwelt-api/internal/application/report"
	"github.com/jhoicas/warenwelt-api/internal/application/sales"
	"github.com/jhoicas/warenwelt-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	GenerateInvoices *rental.GenerateInvoicesUseCase
	RentalInvoices   *rental.InvoiceUseCase
	RentalContracts  *rental.ContractUseCase
	Payouts          *payout.UseCase
	Sales            *sales.UseCase
	Reports          *report.UseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todas las rutas de negocio requieren Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	backOffice := RequireRole(jwt.RoleAdmin, jwt.RoleFinance)
	till := RequireRole(jwt.RoleAdmin, jwt.RoleCashier)

	rentalHandler := NewRentalHandler(deps.GenerateInvoices, deps.RentalInvoices, deps.RentalContracts)
	invoices := api.Group("/rental-invoices", backOffice)
	invoices.Post("/generate", rentalHandler.Generate)
	invoices.Post("/", rentalHandler.CreateInvoice)
	invoices.Get("/", rentalHandler.ListInvoices)
	invoices.Get("/:id", rentalHandler.GetInvoice)
	invoices.Patch("/:id", rentalHandler.UpdateInvoice)
	invoices.Delete("/:id", rentalHandler.DeleteInvoice)

	contracts := api.Group("/rental-contracts", backOffice)
	contracts.Post("/", rentalHandler.CreateContract)
	contracts.Patch("/:id/status", rentalHandler.UpdateContractStatus)
	api.Delete("/shelves/:id", backOffice, rentalHandler.DeleteShelf)

	// Payouts
	payoutHandler := NewPayoutHandler(deps.Payouts)
	payouts := api.Group("/payouts", backOffice)
	payouts.Get("/suppliers/:id/summary", payoutHandler.Summary)
	payouts.Post("/", payoutHandler.Create)
	payouts.Get("/", payoutHandler.List)
	payouts.Get("/:id/statement.pdf", payoutHandler.Statement)
	payouts.Get("/:id", payoutHandler.Get)

	// Caja
	saleHandler := NewSaleHandler(deps.Sales)
	api.Post("/sales", till, saleHandler.Create)
	api.Delete("/products/:id", RequireRole(jwt.RoleAdmin), saleHandler.DeleteProduct)

	// Reportes
	reportHandler := NewReportHandler(deps.Reports)
	reports := api.Group("/reports", backOffice)
	reports.Get("/daily", reportHandler.Daily)
	reports.Get("/weekly", reportHandler.Weekly)
	reports.Get("/monthly", reportHandler.Monthly)
	reports.Get("/period", reportHandler.Period)
	reports.Get("/revenue", reportHandler.Revenue)
	reports.Get("/export/daily.csv", reportHandler.ExportDailyCSV)
	reports.Get("/export/monthly.csv", reportHandler.ExportMonthlyCSV)
	reports.Get("/export/datev.csv", reportHandler.ExportDATEVCSV)
	reports.Get("/export/revenue.xlsx", reportHandler.ExportRevenueXLSX)
}

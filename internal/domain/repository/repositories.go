package repository

// Repositories agrupa los repositorios atados a una misma conexión o transacción.
// TxRunner entrega una instancia por transacción; fuera de ella se usan los del pool.
type Repositories struct {
	Suppliers SupplierRepository
	Products  ProductRepository
	Sales     SaleRepository
	Shelves   ShelfRepository
	Contracts RentalContractRepository
	Invoices  RentalInvoiceRepository
	Payouts   PayoutRepository
	Reports   ReportRepository
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType distingue mercancía en comisión de mercancía nueva propia.
type ProductType string

const (
	ProductTypeCommission ProductType = "COMMISSION"
	ProductTypeNewWare    ProductType = "NEW_WARE"
)

// ProductTypes lista estable de tipos (orden de reportes).
var ProductTypes = []ProductType{ProductTypeCommission, ProductTypeNewWare}

// Valid indica si el tipo es conocido.
func (t ProductType) Valid() bool {
	return t == ProductTypeCommission || t == ProductTypeNewWare
}

// ProductStatus estado del artículo. IN_STOCK → SOLD (vía venta) es la transición crítica.
type ProductStatus string

const (
	ProductStatusInStock  ProductStatus = "IN_STOCK"
	ProductStatusSold     ProductStatus = "SOLD"
	ProductStatusReturned ProductStatus = "RETURNED"
	ProductStatusDonated  ProductStatus = "DONATED"
	ProductStatusReserved ProductStatus = "RESERVED"
)

// Product representa un artículo único (SKU) de un proveedor.
// PurchasePrice es el costo (NEW_WARE) o la parte del proveedor (COMMISSION).
type Product struct {
	ID            string
	SKU           string // único
	Name          string
	Description   string
	SupplierID    string
	CategoryID    string
	TaxRateID     string
	TaxRate       decimal.Decimal // porcentaje, ej. 19.00
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Type          ProductType
	Status        ProductStatus
	EntryDate     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CommissionPerUnit devuelve lo que corresponde al proveedor por unidad vendida (0 para NEW_WARE).
func (p *Product) CommissionPerUnit() decimal.Decimal {
	if p.Type == ProductTypeCommission {
		return p.PurchasePrice
	}
	return decimal.Zero
}

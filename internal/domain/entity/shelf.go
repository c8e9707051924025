package entity

import "github.com/shopspring/decimal"

// ShelfStatus estado operativo de un estante.
type ShelfStatus string

const (
	ShelfStatusAvailable   ShelfStatus = "AVAILABLE"
	ShelfStatusRented      ShelfStatus = "RENTED"
	ShelfStatusMaintenance ShelfStatus = "MAINTENANCE"
)

// Shelf unidad alquilable (estante o superficie).
type Shelf struct {
	ID                  string
	Name                string // único
	LocationDescription string
	SizeDescription     string
	MonthlyRentPrice    decimal.Decimal
	Status              ShelfStatus
	IsActive            bool
}

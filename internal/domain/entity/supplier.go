package entity

import (
	"strings"
	"time"
)

// Supplier representa un proveedor/consignante. También puede ser arrendatario de estantes.
type Supplier struct {
	ID             string
	SupplierNumber string // único
	CompanyName    string
	FirstName      string
	LastName       string
	Email          string // vacío = sin canal de notificación
	Phone          string
	IsInternal     bool // "Eigener Bestand"
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName devuelve la razón social o, en su defecto, nombre y apellido.
func (s *Supplier) DisplayName() string {
	if s.CompanyName != "" {
		return s.CompanyName
	}
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// HasEmail indica si el proveedor tiene email configurado.
func (s *Supplier) HasEmail() bool {
	return strings.TrimSpace(s.Email) != ""
}

package payout

import (
	"context"
	"errors"

	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// ErrNotificationDisabled el transporte de avisos no está configurado (sin SMTP).
var ErrNotificationDisabled = errors.New("envío de avisos deshabilitado")

// Attachment adjunto de un aviso.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message aviso a un proveedor.
type Message struct {
	To          string
	ToName      string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Notifier puerto de salida para avisar al proveedor (correo). Se invoca después del commit;
// su error nunca deshace la liquidación.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// StatementRenderer genera el comprobante de liquidación (PDF).
type StatementRenderer interface {
	RenderPayoutStatement(ctx context.Context, payout *entity.Payout, supplier *entity.Supplier, items []entity.PaidItem) ([]byte, error)
}

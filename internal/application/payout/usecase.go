package payout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warenwelt-api/internal/application/dto"
	"github.com/jhoicas/warenwelt-api/internal/application/ports"
	"github.com/jhoicas/warenwelt-api/internal/domain"
	"github.com/jhoicas/warenwelt-api/internal/domain/entity"
	"github.com/jhoicas/warenwelt-api/internal/domain/rental"
	"github.com/jhoicas/warenwelt-api/internal/domain/repository"
	"github.com/jhoicas/warenwelt-api/pkg/logger"
	"github.com/jhoicas/warenwelt-api/pkg/reference"
)

const (
	dateLayout        = "2006-01-02"
	maxNumberAttempts = 10
)

// Config parámetros de liquidación.
type Config struct {
	PreviewLimit  int           // líneas de ejemplo en el resumen
	Currency      string        // ej. EUR, usado en el texto del aviso
	NotifyTimeout time.Duration // límite para generar y enviar el aviso; 0 = 30s
}

// UseCase liquidación de comisiones a proveedores.
type UseCase struct {
	txRunner  TxRunner
	suppliers repository.SupplierRepository
	payouts   repository.PayoutRepository
	notifier  Notifier
	renderer  StatementRenderer
	locker    ports.Locker
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. renderer puede ser nil (avisos sin PDF adjunto).
func NewUseCase(
	txRunner TxRunner,
	suppliers repository.SupplierRepository,
	payouts repository.PayoutRepository,
	notifier Notifier,
	renderer StatementRenderer,
	locker ports.Locker,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	if locker == nil {
		locker = ports.NoopLocker{}
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = 5
	}
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 30 * time.Second
	}
	return &UseCase{
		txRunner:  txRunner,
		suppliers: suppliers,
		payouts:   payouts,
		notifier:  notifier,
		renderer:  renderer,
		locker:    locker,
		cfg:       cfg,
		log:       log.Component("payouts"),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Summary total y cantidad de comisiones pendientes del proveedor, sin modificar nada.
func (uc *UseCase) Summary(ctx context.Context, supplierID string) (*dto.PayoutSummaryResponse, error) {
	supplier, err := uc.getSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	elig, err := uc.payouts.Eligibility(ctx, supplierID, uc.cfg.PreviewLimit)
	if err != nil {
		return nil, fmt.Errorf("calcular comisiones pendientes: %w", err)
	}
	return &dto.PayoutSummaryResponse{
		SupplierID:         supplier.ID,
		SupplierName:       supplier.DisplayName(),
		TotalDue:           elig.TotalDue,
		EligibleItemsCount: elig.Count,
		ItemsPreview:       toPaidItemResponses(elig.Preview),
	}, nil
}

// Create liquida todas las comisiones pendientes del proveedor en un único payout.
// El alta del payout y la vinculación de las líneas se confirman juntas; luego se envía el aviso
// y su resultado queda en notification_status.
func (uc *UseCase) Create(ctx context.Context, in dto.CreatePayoutRequest) (*dto.PayoutResponse, error) {
	supplier, err := uc.getSupplier(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.HasEmail() {
		return nil, fmt.Errorf("%w: el proveedor %s no tiene email configurado", domain.ErrPrecondition, supplier.SupplierNumber)
	}
	payoutDate := rental.DateOf(uc.now())
	if in.PayoutDate != "" {
		if payoutDate, err = rental.ParseDate(in.PayoutDate); err != nil {
			return nil, fmt.Errorf("%w: payout_date", domain.ErrInvalidInput)
		}
	}

	release, err := uc.locker.Obtain(ctx, "payout:"+supplier.ID)
	if err != nil {
		if errors.Is(err, ports.ErrLockNotObtained) {
			return nil, fmt.Errorf("%w: ya hay una liquidación en curso para el proveedor", domain.ErrConflict)
		}
		return nil, fmt.Errorf("obtener lock de liquidación: %w", err)
	}
	defer func() { _ = release(context.WithoutCancel(ctx)) }()

	p := &entity.Payout{
		ID:                 uuid.New().String(),
		SupplierID:         supplier.ID,
		PayoutDate:         payoutDate,
		TotalAmount:        decimal.Zero,
		Notes:              in.Notes,
		NotificationStatus: entity.NotificationPending,
		CreatedAt:          uc.now().UTC(),
	}
	var items []entity.PaidItem
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		p.PayoutNumber = reference.Payout()
		err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
			if err := repos.Payouts.Create(ctx, p); err != nil {
				return err
			}
			claimed, err := repos.Payouts.ClaimEligibleItems(ctx, supplier.ID, p.ID)
			if err != nil {
				return err
			}
			if len(claimed) == 0 {
				return fmt.Errorf("%w: no hay líneas elegibles para liquidar", domain.ErrPrecondition)
			}
			total := decimal.Zero
			for _, it := range claimed {
				total = total.Add(it.CommissionAmount)
			}
			if !total.IsPositive() {
				return fmt.Errorf("%w: el total a liquidar es cero", domain.ErrPrecondition)
			}
			p.TotalAmount = total
			items = claimed
			return repos.Payouts.UpdateTotal(ctx, p.ID, total)
		})
		if domain.IsUniqueViolationOn(err, domain.FieldPayoutNumber) {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("payout_id", p.ID).
		Str("payout_number", p.PayoutNumber).
		Str("supplier_id", supplier.ID).
		Int("items", len(items)).
		Str("total", p.TotalAmount.StringFixed(2)).
		Msg("liquidación registrada")

	uc.notify(context.WithoutCancel(ctx), p, supplier, items)

	resp := toPayoutResponse(p, supplier)
	resp.Items = toPaidItemResponses(items)
	return resp, nil
}

// notify envía el aviso y registra el resultado. Nunca falla: la liquidación ya está confirmada.
// El envío se corta a los cfg.NotifyTimeout; el estado se registra igualmente con ctx.
func (uc *UseCase) notify(ctx context.Context, p *entity.Payout, supplier *entity.Supplier, items []entity.PaidItem) {
	sendCtx, cancel := context.WithTimeout(ctx, uc.cfg.NotifyTimeout)
	defer cancel()

	msg := uc.buildMessage(p, supplier, items)
	if uc.renderer != nil {
		pdf, err := uc.renderer.RenderPayoutStatement(sendCtx, p, supplier, items)
		if err != nil {
			uc.log.Warn().Err(err).Str("payout_id", p.ID).Msg("no se pudo generar el comprobante PDF, se envía sin adjunto")
		} else {
			msg.Attachments = append(msg.Attachments, Attachment{
				Filename:    statementFilename(p),
				ContentType: "application/pdf",
				Data:        pdf,
			})
		}
	}

	status, errMsg := entity.NotificationSent, ""
	if err := uc.notifier.Send(sendCtx, msg); err != nil {
		if errors.Is(err, ErrNotificationDisabled) {
			status = entity.NotificationSkipped
			uc.log.Info().Str("payout_id", p.ID).Msg("aviso de liquidación no enviado: correo deshabilitado")
		} else {
			status, errMsg = entity.NotificationFailed, err.Error()
			uc.log.Error().Err(err).
				Str("payout_id", p.ID).
				Str("supplier_id", supplier.ID).
				Str("email", supplier.Email).
				Msg("fallo el envío del aviso de liquidación")
		}
	}
	p.NotificationStatus, p.NotificationError = status, errMsg
	if err := uc.payouts.UpdateNotification(ctx, p.ID, status, errMsg); err != nil {
		uc.log.Error().Err(err).Str("payout_id", p.ID).Msg("no se pudo registrar el estado del aviso")
	}
}

func (uc *UseCase) buildMessage(p *entity.Payout, supplier *entity.Supplier, items []entity.PaidItem) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\n", supplier.DisplayName())
	fmt.Fprintf(&b, "für Ihre verkauften Kommissionsartikel wurde die Auszahlung %s vom %s erstellt.\n\n",
		p.PayoutNumber, p.PayoutDate.Format("02.01.2006"))
	for _, it := range items {
		fmt.Fprintf(&b, "- %s (%s) x%d: %s %s\n", it.ProductName, it.ProductSKU, it.Quantity,
			germanAmount(it.CommissionAmount), uc.cfg.Currency)
	}
	fmt.Fprintf(&b, "\nGesamtbetrag: %s %s\n", germanAmount(p.TotalAmount), uc.cfg.Currency)
	if p.Notes != "" {
		fmt.Fprintf(&b, "\nHinweis: %s\n", p.Notes)
	}
	b.WriteString("\nMit freundlichen Grüßen\nIhr Warenwelt-Team\n")
	return Message{
		To:      supplier.Email,
		ToName:  supplier.DisplayName(),
		Subject: "Ihre Auszahlung " + p.PayoutNumber,
		Body:    b.String(),
	}
}

func germanAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func statementFilename(p *entity.Payout) string {
	return "Auszahlung-" + p.PayoutNumber + ".pdf"
}

// Get devuelve el payout con proveedor y líneas pagadas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.PayoutResponse, error) {
	p, supplier, items, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPayoutResponse(p, supplier)
	resp.Items = toPaidItemResponses(items)
	return resp, nil
}

// List lista payouts (opcionalmente de un proveedor), más recientes primero.
func (uc *UseCase) List(ctx context.Context, in dto.PayoutListRequest) ([]dto.PayoutResponse, error) {
	in.DefaultPage()
	list, err := uc.payouts.List(ctx, in.SupplierID, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	names := map[string]*entity.Supplier{}
	out := make([]dto.PayoutResponse, 0, len(list))
	for _, p := range list {
		s, ok := names[p.SupplierID]
		if !ok {
			if s, err = uc.suppliers.GetByID(ctx, p.SupplierID); err != nil {
				return nil, err
			}
			names[p.SupplierID] = s
		}
		out = append(out, *toPayoutResponse(p, s))
	}
	return out, nil
}

// Statement genera el comprobante PDF de un payout.
func (uc *UseCase) Statement(ctx context.Context, id string) (pdf []byte, filename string, err error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("%w: generación de PDF no disponible", domain.ErrPrecondition)
	}
	p, supplier, items, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err = uc.renderer.RenderPayoutStatement(ctx, p, supplier, items)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, statementFilename(p), nil
}

func (uc *UseCase) load(ctx context.Context, id string) (*entity.Payout, *entity.Supplier, []entity.PaidItem, error) {
	p, err := uc.payouts.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if p == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	supplier, err := uc.suppliers.GetByID(ctx, p.SupplierID)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := uc.payouts.ListItems(ctx, p.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, supplier, items, nil
}

func (uc *UseCase) getSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: supplier_id requerido", domain.ErrInvalidInput)
	}
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return s, nil
}

func toPayoutResponse(p *entity.Payout, s *entity.Supplier) *dto.PayoutResponse {
	resp := &dto.PayoutResponse{
		ID:                 p.ID,
		PayoutNumber:       p.PayoutNumber,
		SupplierID:         p.SupplierID,
		PayoutDate:         p.PayoutDate.Format(dateLayout),
		TotalAmount:        p.TotalAmount,
		Notes:              p.Notes,
		NotificationStatus: string(p.NotificationStatus),
		NotificationError:  p.NotificationError,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
	}
	if s != nil {
		resp.SupplierName = s.DisplayName()
	}
	return resp
}

func toPaidItemResponses(items []entity.PaidItem) []dto.PaidItemResponse {
	out := make([]dto.PaidItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.PaidItemResponse{
			SaleItemID:        it.SaleItemID,
			SaleID:            it.SaleID,
			TransactionNumber: it.TransactionNumber,
			SaleDate:          it.SaleTime.Format(time.RFC3339),
			ProductID:         it.ProductID,
			ProductSKU:        it.ProductSKU,
			ProductName:       it.ProductName,
			Quantity:          it.Quantity,
			CommissionAmount:  it.CommissionAmount,
		})
	}
	return out
}

// Package transfer implementa el vale de traslado de mercadería entre sucursales:
// PENDIENTE → EN_TRANSITO → COMPLETADO, con CANCELADO antes de completar.
package transfer

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/inventory"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

const (
	maxNoteLength  = 500
	maxPhotoBytes  = 10 << 20
	dateOnlyLayout = "2006-01-02"
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Options reglas configurables del flujo.
type Options struct {
	// AllowNegativeStock permite despachar sin stock suficiente (se registra WARN y se informa
	// en StockWarnings). Por defecto se rechaza con InsufficientStockError.
	AllowNegativeStock bool
	MinJustification   int
}

// UseCase casos de uso del vale de traslado.
type UseCase struct {
	policy       *access.Policy
	txRunner     TxRunner
	transferRepo repository.StockTransferRepository
	branchRepo   repository.BranchRepository
	productRepo  repository.ProductRepository
	pdf          VoucherPDFGenerator
	photos       PhotoStore
	opts         Options
	log          *logger.Logger
}

// NewUseCase construye el caso de uso. pdf y photos pueden ser nil (funciones deshabilitadas).
func NewUseCase(
	policy *access.Policy,
	txRunner TxRunner,
	transferRepo repository.StockTransferRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	pdf VoucherPDFGenerator,
	photos PhotoStore,
	opts Options,
	log *logger.Logger,
) *UseCase {
	if opts.MinJustification <= 0 {
		opts.MinJustification = inventory.DefaultMinJustification
	}
	return &UseCase{
		policy:       policy,
		txRunner:     txRunner,
		transferRepo: transferRepo,
		branchRepo:   branchRepo,
		productRepo:  productRepo,
		pdf:          pdf,
		photos:       photos,
		opts:         opts,
		log:          log.Component("transfers"),
	}
}

// Create registra el vale en PENDIENTE. No toca stock.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, branchID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleTransfers, branchID)
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(in.TargetBranchID)
	note := strings.TrimSpace(in.Note)
	switch {
	case target == "":
		return nil, domain.Invalid("target_branch_id", "indique la sucursal destino")
	case target == scope.BranchID:
		return nil, domain.Invalid("target_branch_id", "origen y destino deben ser distintos")
	case len(in.Items) == 0:
		return nil, domain.Invalid("items", "el traslado debe tener al menos un producto")
	case len([]rune(note)) > maxNoteLength:
		return nil, domain.Invalid("note", "la nota supera los 500 caracteres")
	}

	ids := make([]string, 0, len(in.Items))
	seen := make(map[string]bool, len(in.Items))
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			return nil, domain.Invalid(field+".product_id", "requerido")
		}
		if seen[pid] {
			return nil, domain.Invalid(field+".product_id", "producto repetido en el traslado")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid(field+".quantity", "la cantidad debe ser mayor que cero")
		}
		if err := domain.CheckScale(field+".quantity", it.Quantity, domain.QuantityScale); err != nil {
			return nil, err
		}
		seen[pid] = true
		ids = append(ids, pid)
	}

	targetBranch, err := uc.branchRepo.GetByID(ctx, target)
	if err != nil {
		return nil, err
	}
	if targetBranch == nil {
		return nil, domain.NotFound("sucursal", target)
	}
	if !targetBranch.Active {
		return nil, domain.Invalid("target_branch_id", "la sucursal destino está inactiva")
	}

	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		p, ok := products[id]
		if !ok || p == nil {
			return nil, domain.NotFound("producto", id)
		}
		if !p.Active {
			return nil, domain.Invalid("items", "el producto "+id+" está inactivo")
		}
	}

	now := time.Now()
	t := &entity.StockTransfer{
		ID:             uuid.New().String(),
		SourceBranchID: scope.BranchID,
		TargetBranchID: target,
		Status:         entity.TransferPending,
		Note:           note,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, it := range in.Items {
		t.Items = append(t.Items, entity.StockTransferItem{
			ID:                uuid.New().String(),
			ProductID:         strings.TrimSpace(it.ProductID),
			QuantityRequested: it.Quantity,
			QuantitySent:      it.Quantity,
		})
	}

	err = uc.txRunner.RunTransfer(ctx, func(transferRepo repository.StockTransferRepository, _ repository.StockRepository, _ repository.InventoryMovementRepository) error {
		return transferRepo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transfer_id", t.ID).
		Int64("number", t.Number).
		Str("source", t.SourceBranchID).
		Str("target", t.TargetBranchID).
		Int("items", len(t.Items)).
		Msg("traslado creado")
	return toTransferResponse(t, nil), nil
}

// Emit despacha el vale: descuenta stock de origen por QuantitySent y pasa a EN_TRANSITO.
func (uc *UseCase) Emit(ctx context.Context, actor access.Actor, branchID, id string, in dto.EmitTransferRequest) (*dto.TransferResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleTransfers, branchID)
	if err != nil {
		return nil, err
	}

	var (
		out      *entity.StockTransfer
		warnings []dto.StockWarningDTO
	)
	err = uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.StockTransferRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		t, err := lockTransfer(ctx, transferRepo, id)
		if err != nil {
			return err
		}
		if t.SourceBranchID != scope.BranchID {
			return domain.Forbidden("solo la sucursal origen puede despachar el traslado")
		}
		if t.Status != entity.TransferPending {
			return &domain.StateError{Entity: "traslado", Current: t.Status, Action: "despachar"}
		}
		if err := uc.applyShipment(t, in.Items); err != nil {
			return err
		}

		var shortages []domain.StockShortage
		warnings = nil
		now := time.Now()
		for _, item := range sortedItems(t) {
			if item.QuantitySent.IsZero() {
				continue
			}
			stock, err := stockRepo.GetForUpdate(ctx, item.ProductID, t.SourceBranchID)
			if err != nil {
				return err
			}
			if stock.Quantity.LessThan(item.QuantitySent) {
				shortages = append(shortages, domain.StockShortage{
					ProductID: item.ProductID,
					Available: stock.Quantity.String(),
					Requested: item.QuantitySent.String(),
				})
				warnings = append(warnings, dto.StockWarningDTO{
					ProductID: item.ProductID,
					Available: stock.Quantity,
					Sent:      item.QuantitySent,
				})
			}
			stock.Quantity = stock.Quantity.Sub(item.QuantitySent)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, stock); err != nil {
				return err
			}
			if err := movRepo.Create(ctx, &entity.InventoryMovement{
				ID:            uuid.New().String(),
				TransactionID: t.ID,
				ProductID:     item.ProductID,
				BranchID:      t.SourceBranchID,
				Type:          entity.MovementTransferOut,
				Quantity:      item.QuantitySent.Neg(),
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
			}); err != nil {
				return err
			}
		}
		if len(shortages) > 0 && !uc.opts.AllowNegativeStock {
			return &domain.InsufficientStockError{BranchID: t.SourceBranchID, Shortages: shortages}
		}

		t.Status = entity.TransferInTransit
		t.ShippedBy = actor.UserID
		t.ShippedAt = &now
		t.UpdatedAt = now
		if err := transferRepo.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, w := range warnings {
		uc.log.Warn().
			Str("transfer_id", out.ID).
			Str("branch_id", out.SourceBranchID).
			Str("product_id", w.ProductID).
			Str("available", w.Available.String()).
			Str("sent", w.Sent.String()).
			Msg("traslado despachado con stock negativo")
	}
	uc.log.Info().
		Str("transfer_id", out.ID).
		Int64("number", out.Number).
		Str("user_id", actor.UserID).
		Msg("traslado despachado")
	return toTransferResponse(out, warnings), nil
}

// applyShipment aplica los ajustes opcionales de cantidad enviada.
func (uc *UseCase) applyShipment(t *entity.StockTransfer, adjustments []dto.EmitItemRequest) error {
	touched := make(map[string]bool, len(adjustments))
	for i, adj := range adjustments {
		field := fmt.Sprintf("items[%d]", i)
		item := findItem(t, adj.ItemID, adj.ProductID)
		if item == nil {
			return domain.Invalid(field, "la línea no pertenece al traslado")
		}
		if touched[item.ID] {
			return domain.Invalid(field, "línea repetida")
		}
		touched[item.ID] = true

		if adj.QuantitySent == nil {
			continue
		}
		sent := *adj.QuantitySent
		if sent.IsNegative() {
			return domain.Invalid(field+".quantity_sent", "la cantidad no puede ser negativa")
		}
		if err := domain.CheckScale(field+".quantity_sent", sent, domain.QuantityScale); err != nil {
			return err
		}
		if !sent.Equal(item.QuantityRequested) {
			if !inventory.ValidJustification(adj.Justification, uc.opts.MinJustification) {
				return domain.Invalid(field+".justification",
					fmt.Sprintf("justifique la diferencia con al menos %d caracteres", uc.opts.MinJustification))
			}
			item.ShipmentJustification = inventory.NormalizeJustification(adj.Justification)
		}
		item.QuantitySent = sent
	}
	for i := range t.Items {
		if t.Items[i].QuantitySent.IsPositive() {
			return nil
		}
	}
	return domain.Invalid("items", "no se puede despachar un traslado vacío")
}

// Receive completa el vale: suma al stock de destino lo efectivamente recibido.
// La diferencia con lo enviado queda registrada como merma; no se devuelve al origen.
func (uc *UseCase) Receive(ctx context.Context, actor access.Actor, branchID, id string, in dto.ReceiveTransferRequest) (*dto.TransferResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleTransfers, branchID)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "indique la cantidad recibida de cada línea")
	}

	var out *entity.StockTransfer
	err = uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.StockTransferRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		t, err := lockTransfer(ctx, transferRepo, id)
		if err != nil {
			return err
		}
		if t.TargetBranchID != scope.BranchID {
			return domain.Forbidden("solo la sucursal destino puede recibir el traslado")
		}
		if t.Status != entity.TransferInTransit {
			return &domain.StateError{Entity: "traslado", Current: t.Status, Action: "recibir"}
		}
		if err := uc.applyReception(t, in.Items); err != nil {
			return err
		}

		now := time.Now()
		for _, item := range sortedItems(t) {
			received := *item.QuantityReceived
			if received.IsZero() {
				continue
			}
			stock, err := stockRepo.GetForUpdate(ctx, item.ProductID, t.TargetBranchID)
			if err != nil {
				return err
			}
			stock.Quantity = stock.Quantity.Add(received)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, stock); err != nil {
				return err
			}
			if err := movRepo.Create(ctx, &entity.InventoryMovement{
				ID:            uuid.New().String(),
				TransactionID: t.ID,
				ProductID:     item.ProductID,
				BranchID:      t.TargetBranchID,
				Type:          entity.MovementTransferIn,
				Quantity:      received,
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
			}); err != nil {
				return err
			}
		}

		t.Status = entity.TransferCompleted
		t.ReceivedBy = actor.UserID
		t.ReceivedAt = &now
		t.UpdatedAt = now
		if err := transferRepo.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	discrepancies := 0
	for i := range out.Items {
		if out.Items[i].HasDiscrepancy() {
			discrepancies++
		}
	}
	var ev *zerolog.Event
	if discrepancies > 0 {
		ev = uc.log.Warn()
	} else {
		ev = uc.log.Info()
	}
	ev.Str("transfer_id", out.ID).
		Int("discrepancies", discrepancies).
		Int64("number", out.Number).
		Str("user_id", actor.UserID).
		Msg("traslado recibido")
	return toTransferResponse(out, nil), nil
}

// applyReception exige una entrada por línea y justificación en toda diferencia.
func (uc *UseCase) applyReception(t *entity.StockTransfer, lines []dto.ReceiveItemRequest) error {
	touched := make(map[string]bool, len(lines))
	for i, line := range lines {
		field := fmt.Sprintf("items[%d]", i)
		item := findItem(t, line.ItemID, line.ProductID)
		if item == nil {
			return domain.Invalid(field, "la línea no pertenece al traslado")
		}
		if touched[item.ID] {
			return domain.Invalid(field, "línea repetida")
		}
		touched[item.ID] = true

		if line.QuantityReceived == nil {
			return domain.Invalid(field+".quantity_received", "requerido")
		}
		received := *line.QuantityReceived
		if received.IsNegative() {
			return domain.Invalid(field+".quantity_received", "la cantidad no puede ser negativa")
		}
		if err := domain.CheckScale(field+".quantity_received", received, domain.QuantityScale); err != nil {
			return err
		}
		if !received.Equal(item.QuantitySent) && !inventory.ValidJustification(line.Justification, uc.opts.MinJustification) {
			return domain.Invalid(field+".justification",
				fmt.Sprintf("justifique la diferencia con al menos %d caracteres", uc.opts.MinJustification))
		}
		item.QuantityReceived = &received
		item.ReceptionJustification = inventory.NormalizeJustification(line.Justification)
		if url := strings.TrimSpace(line.PhotoURL); url != "" {
			item.ReceptionPhotoURL = url
		}
	}
	if len(touched) != len(t.Items) {
		return domain.Invalid("items", "indique la cantidad recibida de todas las líneas")
	}
	return nil
}

// Cancel anula el vale antes de completarse. Si ya se había despachado, devuelve lo enviado
// al stock de origen.
func (uc *UseCase) Cancel(ctx context.Context, actor access.Actor, branchID, id string, in dto.CancelTransferRequest) (*dto.TransferResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleTransfers, branchID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if len([]rune(reason)) > maxNoteLength {
		return nil, domain.Invalid("reason", "el motivo supera los 500 caracteres")
	}

	var (
		out        *entity.StockTransfer
		wasShipped bool
	)
	err = uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.StockTransferRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		t, err := lockTransfer(ctx, transferRepo, id)
		if err != nil {
			return err
		}
		if t.SourceBranchID != scope.BranchID {
			return domain.Forbidden("solo la sucursal origen puede cancelar el traslado")
		}
		if t.Status != entity.TransferPending && t.Status != entity.TransferInTransit {
			return &domain.StateError{Entity: "traslado", Current: t.Status, Action: "cancelar"}
		}

		now := time.Now()
		wasShipped = t.Status == entity.TransferInTransit
		if wasShipped {
			for _, item := range sortedItems(t) {
				if item.QuantitySent.IsZero() {
					continue
				}
				stock, err := stockRepo.GetForUpdate(ctx, item.ProductID, t.SourceBranchID)
				if err != nil {
					return err
				}
				stock.Quantity = stock.Quantity.Add(item.QuantitySent)
				stock.UpdatedAt = now
				if err := stockRepo.Upsert(ctx, stock); err != nil {
					return err
				}
				if err := movRepo.Create(ctx, &entity.InventoryMovement{
					ID:            uuid.New().String(),
					TransactionID: t.ID,
					ProductID:     item.ProductID,
					BranchID:      t.SourceBranchID,
					Type:          entity.MovementTransferReturn,
					Quantity:      item.QuantitySent,
					CreatedAt:     now,
					CreatedBy:     actor.UserID,
				}); err != nil {
					return err
				}
			}
		}

		t.Status = entity.TransferCancelled
		t.CancelReason = reason
		t.CancelledBy = actor.UserID
		t.CancelledAt = &now
		t.UpdatedAt = now
		if err := transferRepo.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transfer_id", out.ID).
		Int64("number", out.Number).
		Bool("stock_restored", wasShipped).
		Str("user_id", actor.UserID).
		Msg("traslado cancelado")
	return toTransferResponse(out, nil), nil
}

// Get devuelve un vale visible para su origen o su destino.
func (uc *UseCase) Get(ctx context.Context, actor access.Actor, branchID, id string) (*dto.TransferResponse, error) {
	t, err := uc.visible(ctx, actor, branchID, id)
	if err != nil {
		return nil, err
	}
	return toTransferResponse(t, nil), nil
}

// List lista los vales de la sucursal según sentido, estado y rango de fechas (creación).
func (uc *UseCase) List(ctx context.Context, actor access.Actor, branchID string, in dto.ListTransfersRequest) (*dto.TransferListResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleTransfers, branchID)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()

	f := repository.TransferFilter{
		BranchID:  scope.BranchID,
		Direction: strings.ToLower(strings.TrimSpace(in.Direction)),
		Status:    strings.ToUpper(strings.TrimSpace(in.Status)),
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	switch f.Direction {
	case "":
		f.Direction = repository.DirectionAll
	case repository.DirectionAll, repository.DirectionIncoming, repository.DirectionOutgoing:
	default:
		return nil, domain.Invalid("direction", "use incoming, outgoing o all")
	}
	switch f.Status {
	case "", entity.TransferPending, entity.TransferInTransit, entity.TransferCompleted, entity.TransferCancelled:
	default:
		return nil, domain.Invalid("status", "estado desconocido")
	}
	if f.From, err = parseDate(in.From, false); err != nil {
		return nil, domain.Invalid("from", "fecha inválida (YYYY-MM-DD o RFC3339)")
	}
	if f.To, err = parseDate(in.To, true); err != nil {
		return nil, domain.Invalid("to", "fecha inválida (YYYY-MM-DD o RFC3339)")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.Invalid("to", "el rango de fechas está invertido")
	}

	list, err := uc.transferRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t, nil))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// VoucherPDF genera el vale imprimible con los tres actores y las cantidades.
func (uc *UseCase) VoucherPDF(ctx context.Context, actor access.Actor, branchID, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	t, err := uc.visible(ctx, actor, branchID, id)
	if err != nil {
		return nil, "", err
	}
	source, err := uc.branchRepo.GetByID(ctx, t.SourceBranchID)
	if err != nil {
		return nil, "", err
	}
	target, err := uc.branchRepo.GetByID(ctx, t.TargetBranchID)
	if err != nil {
		return nil, "", err
	}
	ids := make([]string, 0, len(t.Items))
	for _, it := range t.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, "", err
	}

	data, err := uc.pdf.GenerateTransferVoucher(VoucherData{
		Transfer:     t,
		SourceBranch: source,
		TargetBranch: target,
		Products:     products,
	})
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("traslado_%06d.pdf", t.Number), nil
}

// UploadReceptionPhoto guarda la evidencia de una línea y devuelve su URL. Con el vale en
// tránsito la URL se envía luego en Receive; si ya está completado se asocia a la línea.
func (uc *UseCase) UploadReceptionPhoto(
	ctx context.Context,
	actor access.Actor,
	branchID, id, itemID string,
	r io.Reader,
	size int64,
	contentType string,
) (*dto.PhotoUploadResponse, error) {
	if uc.photos == nil {
		return nil, fmt.Errorf("almacenamiento de fotos no configurado")
	}
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleTransfers, branchID)
	if err != nil {
		return nil, err
	}
	ext, ok := photoExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, domain.Invalid("photo", "formato no soportado (jpeg, png o webp)")
	}
	if size <= 0 || size > maxPhotoBytes {
		return nil, domain.Invalid("photo", "la foto debe pesar entre 1 byte y 10 MB")
	}

	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("traslado", id)
	}
	if t.TargetBranchID != scope.BranchID {
		return nil, domain.Forbidden("solo la sucursal destino puede adjuntar evidencia de recepción")
	}
	if t.Status != entity.TransferInTransit && t.Status != entity.TransferCompleted {
		return nil, &domain.StateError{Entity: "traslado", Current: t.Status, Action: "adjuntar evidencia"}
	}
	if t.Item(itemID) == nil {
		return nil, domain.NotFound("línea de traslado", itemID)
	}

	key := fmt.Sprintf("transfers/%s/%s/%s%s", t.ID, itemID, uuid.New().String(), ext)
	url, err := uc.photos.PutPhoto(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}

	if t.Status == entity.TransferCompleted {
		err = uc.txRunner.RunTransfer(ctx, func(transferRepo repository.StockTransferRepository, _ repository.StockRepository, _ repository.InventoryMovementRepository) error {
			locked, err := lockTransfer(ctx, transferRepo, id)
			if err != nil {
				return err
			}
			item := locked.Item(itemID)
			if item == nil {
				return domain.NotFound("línea de traslado", itemID)
			}
			item.ReceptionPhotoURL = url
			locked.UpdatedAt = time.Now()
			return transferRepo.Update(ctx, locked)
		})
		if err != nil {
			uc.discardPhoto(ctx, t.ID, key)
			return nil, err
		}
	}

	uc.log.Info().
		Str("transfer_id", t.ID).
		Str("item_id", itemID).
		Str("key", key).
		Msg("evidencia de recepción almacenada")
	return &dto.PhotoUploadResponse{URL: url}, nil
}

// discardPhoto borra un objeto subido cuya asociación al vale falló. Si el borrado también
// falla, la clave queda en el log para limpiarla a mano.
func (uc *UseCase) discardPhoto(ctx context.Context, transferID, key string) {
	if err := uc.photos.RemovePhoto(context.WithoutCancel(ctx), key); err != nil {
		uc.log.Error().Err(err).
			Str("transfer_id", transferID).
			Str("key", key).
			Msg("evidencia huérfana en almacenamiento")
		return
	}
	uc.log.Warn().
		Str("transfer_id", transferID).
		Str("key", key).
		Msg("evidencia descartada: no se pudo asociar al traslado")
}

func (uc *UseCase) visible(ctx context.Context, actor access.Actor, branchID, id string) (*entity.StockTransfer, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleTransfers, branchID)
	if err != nil {
		return nil, err
	}
	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("traslado", id)
	}
	if t.SourceBranchID != scope.BranchID && t.TargetBranchID != scope.BranchID {
		return nil, domain.Forbidden("el traslado no involucra a la sucursal")
	}
	return t, nil
}

func lockTransfer(ctx context.Context, repo repository.StockTransferRepository, id string) (*entity.StockTransfer, error) {
	if id == "" {
		return nil, domain.Invalid("id", "requerido")
	}
	t, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("traslado", id)
	}
	return t, nil
}

// findItem ubica la línea por item_id o, en su defecto, por product_id.
func findItem(t *entity.StockTransfer, itemID, productID string) *entity.StockTransferItem {
	if itemID = strings.TrimSpace(itemID); itemID != "" {
		return t.Item(itemID)
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil
	}
	for i := range t.Items {
		if t.Items[i].ProductID == productID {
			return &t.Items[i]
		}
	}
	return nil
}

// sortedItems recorre las líneas ordenadas por producto para bloquear filas de stock
// siempre en el mismo orden.
func sortedItems(t *entity.StockTransfer) []*entity.StockTransferItem {
	out := make([]*entity.StockTransferItem, 0, len(t.Items))
	for i := range t.Items {
		out = append(out, &t.Items[i])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func parseDate(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func toTransferResponse(t *entity.StockTransfer, warnings []dto.StockWarningDTO) *dto.TransferResponse {
	items := make([]dto.TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		var received *decimal.Decimal
		if it.QuantityReceived != nil {
			q := *it.QuantityReceived
			received = &q
		}
		items = append(items, dto.TransferItemResponse{
			ID:                     it.ID,
			ProductID:              it.ProductID,
			QuantityRequested:      it.QuantityRequested,
			QuantitySent:           it.QuantitySent,
			QuantityReceived:       received,
			ShipmentJustification:  it.ShipmentJustification,
			ReceptionJustification: it.ReceptionJustification,
			ReceptionPhotoURL:      it.ReceptionPhotoURL,
		})
	}
	return &dto.TransferResponse{
		ID:             t.ID,
		Number:         t.Number,
		SourceBranchID: t.SourceBranchID,
		TargetBranchID: t.TargetBranchID,
		Status:         t.Status,
		Note:           t.Note,
		CancelReason:   t.CancelReason,
		CreatedBy:      t.CreatedBy,
		ShippedBy:      t.ShippedBy,
		ReceivedBy:     t.ReceivedBy,
		CancelledBy:    t.CancelledBy,
		CreatedAt:      t.CreatedAt,
		ShippedAt:      t.ShippedAt,
		ReceivedAt:     t.ReceivedAt,
		CancelledAt:    t.CancelledAt,
		Items:          items,
		StockWarnings:  warnings,
	}
}

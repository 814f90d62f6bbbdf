package clearing

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

// Sentidos del listado de liquidaciones.
const (
	ModeOutgoing = "outgoing"
	ModeIncoming = "incoming"
)

const maxNoteLength = 500

// SettlementUseCase flujo PENDING → CONFIRMED | REJECTED de las liquidaciones entre sucursales.
// La deudora crea; solo la acreedora resuelve, una única vez.
type SettlementUseCase struct {
	policy         *access.Policy
	txRunner       TxRunner
	settlementRepo repository.SettlementRepository
	branchRepo     repository.BranchRepository
	log            *logger.Logger
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(
	policy *access.Policy,
	txRunner TxRunner,
	settlementRepo repository.SettlementRepository,
	branchRepo repository.BranchRepository,
	log *logger.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		policy:         policy,
		txRunner:       txRunner,
		settlementRepo: settlementRepo,
		branchRepo:     branchRepo,
		log:            log.Component("settlements"),
	}
}

// Create registra que la sucursal del actor pagó a TargetBranchID. Siempre nace PENDING.
// El monto no se contrasta con la deuda calculada: se admiten pagos parciales y anticipos.
func (uc *SettlementUseCase) Create(ctx context.Context, actor access.Actor, branchID string, in dto.CreateSettlementRequest) (*dto.SettlementResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleClearing, branchID)
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(in.TargetBranchID)
	note := strings.TrimSpace(in.Note)
	switch {
	case target == "":
		return nil, domain.Invalid("target_branch_id", "indique la sucursal acreedora")
	case target == scope.BranchID:
		return nil, domain.Invalid("target_branch_id", "una sucursal no puede liquidarse a sí misma")
	case !in.Amount.GreaterThan(decimal.Zero):
		return nil, domain.Invalid("amount", "el monto debe ser mayor que cero")
	case utf8.RuneCountInString(note) > maxNoteLength:
		return nil, domain.Invalid("note", "la nota supera los 500 caracteres")
	}
	if err := domain.CheckScale("amount", in.Amount, domain.MoneyScale); err != nil {
		return nil, err
	}

	targetBranch, err := uc.branchRepo.GetByID(ctx, target)
	if err != nil {
		return nil, err
	}
	if targetBranch == nil {
		return nil, domain.NotFound("sucursal", target)
	}
	if !targetBranch.Active {
		return nil, domain.Invalid("target_branch_id", "la sucursal acreedora está inactiva")
	}

	now := time.Now()
	s := &entity.Settlement{
		ID:             uuid.New().String(),
		SourceBranchID: scope.BranchID,
		TargetBranchID: target,
		Amount:         in.Amount,
		Status:         entity.SettlementPending,
		Note:           note,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = uc.txRunner.RunSettlement(ctx, func(settlementRepo repository.SettlementRepository) error {
		return settlementRepo.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("settlement_id", s.ID).
		Str("source", s.SourceBranchID).
		Str("target", s.TargetBranchID).
		Str("amount", s.Amount.String()).
		Str("user_id", actor.UserID).
		Msg("liquidación registrada")
	return toSettlementResponse(s), nil
}

// Update confirma o rechaza una liquidación pendiente. La fila se bloquea durante la
// transacción: de dos llamadas concurrentes solo una encuentra PENDING.
func (uc *SettlementUseCase) Update(ctx context.Context, actor access.Actor, branchID, id string, in dto.UpdateSettlementRequest) (*dto.SettlementResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleClearing, branchID)
	if err != nil {
		return nil, err
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status != entity.SettlementConfirmed && status != entity.SettlementRejected {
		return nil, domain.Invalid("status", "use CONFIRMED o REJECTED")
	}
	if id == "" {
		return nil, domain.Invalid("id", "requerido")
	}

	var updated *entity.Settlement
	err = uc.txRunner.RunSettlement(ctx, func(settlementRepo repository.SettlementRepository) error {
		s, err := settlementRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NotFound("liquidación", id)
		}
		if s.TargetBranchID != scope.BranchID {
			return domain.Forbidden("solo la sucursal acreedora puede confirmar o rechazar la liquidación")
		}
		if s.IsTerminal() {
			return &domain.StateError{Entity: "liquidación", Current: s.Status, Action: actionFor(status)}
		}
		now := time.Now()
		s.Status = status
		s.ResolvedBy = actor.UserID
		s.ResolvedAt = &now
		s.UpdatedAt = now
		if err := settlementRepo.UpdateStatus(ctx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("settlement_id", updated.ID).
		Str("status", updated.Status).
		Str("source", updated.SourceBranchID).
		Str("target", updated.TargetBranchID).
		Str("user_id", actor.UserID).
		Msg("liquidación resuelta")
	return toSettlementResponse(updated), nil
}

// List devuelve las liquidaciones salientes (la sucursal pagó) o entrantes (le pagaron).
func (uc *SettlementUseCase) List(ctx context.Context, actor access.Actor, branchID, mode string) (*dto.SettlementListResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleClearing, branchID)
	if err != nil {
		return nil, err
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = ModeOutgoing
	}

	var list []entity.Settlement
	switch mode {
	case ModeOutgoing:
		list, err = uc.settlementRepo.ListBySource(ctx, scope.BranchID)
	case ModeIncoming:
		list, err = uc.settlementRepo.ListByTarget(ctx, scope.BranchID)
	default:
		return nil, domain.Invalid("mode", "use outgoing o incoming")
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.SettlementResponse, 0, len(list))
	for i := range list {
		items = append(items, *toSettlementResponse(&list[i]))
	}
	return &dto.SettlementListResponse{Mode: mode, Items: items}, nil
}

// Get devuelve una liquidación visible para su origen o su destino.
func (uc *SettlementUseCase) Get(ctx context.Context, actor access.Actor, branchID, id string) (*dto.SettlementResponse, error) {
	scope, err := uc.policy.Authorize(ctx, actor, access.ModuleClearing, branchID)
	if err != nil {
		return nil, err
	}
	s, err := uc.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("liquidación", id)
	}
	if s.SourceBranchID != scope.BranchID && s.TargetBranchID != scope.BranchID {
		return nil, domain.Forbidden("la liquidación no involucra a la sucursal")
	}
	return toSettlementResponse(s), nil
}

func actionFor(status string) string {
	if status == entity.SettlementConfirmed {
		return "confirmar"
	}
	return "rechazar"
}

func toSettlementResponse(s *entity.Settlement) *dto.SettlementResponse {
	return &dto.SettlementResponse{
		ID:             s.ID,
		SourceBranchID: s.SourceBranchID,
		TargetBranchID: s.TargetBranchID,
		Amount:         s.Amount,
		Status:         s.Status,
		Note:           s.Note,
		CreatedBy:      s.CreatedBy,
		ResolvedBy:     s.ResolvedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		ResolvedAt:     s.ResolvedAt,
	}
}

// Package access resuelve, una sola vez por llamada, qué sucursal actúa y si el rol
// puede usar el módulo solicitado.
package access

import (
	"context"
	"strings"

	"github.com/jhoicas/sucursales-api/internal/domain"
)

// Roles reconocidos.
const (
	RoleAdmin      = "ADMIN"
	RoleGerente    = "GERENTE"
	RoleSupervisor = "SUPERVISOR"
	RoleCajero     = "CAJERO"
)

// Módulos que pueden deshabilitarse administrativamente.
const (
	ModuleClearing     = "clearing"
	ModuleTransfers    = "transfers"
	ModuleStockEntries = "stock_entries"
)

// Actor es quien invoca una operación: usuario, sucursal asociada y rol.
type Actor struct {
	UserID   string
	BranchID string
	Role     string
}

// Privileged informa si el rol salta el alcance por sucursal.
func (a Actor) Privileged() bool {
	switch strings.ToUpper(a.Role) {
	case RoleAdmin, RoleGerente:
		return true
	}
	return false
}

func (a Actor) knownRole() bool {
	switch strings.ToUpper(a.Role) {
	case RoleAdmin, RoleGerente, RoleSupervisor, RoleCajero:
		return true
	}
	return false
}

// Scope resultado de autorizar: sucursal efectiva y actor original.
type Scope struct {
	BranchID   string
	Actor      Actor
	Privileged bool
}

// ModuleChecker consulta si un módulo está habilitado.
type ModuleChecker interface {
	IsModuleEnabled(ctx context.Context, module string) (bool, error)
}

// Policy política de autorización inyectada en los casos de uso.
type Policy struct {
	modules ModuleChecker
}

// NewPolicy construye la política. modules nil = todos los módulos habilitados.
func NewPolicy(modules ModuleChecker) *Policy {
	return &Policy{modules: modules}
}

// Authorize valida al actor, el estado del módulo y resuelve la sucursal que actúa.
//
// ADMIN y GERENTE pueden actuar como cualquier sucursal (requestedBranch o la propia) y no
// quedan bloqueados por módulos deshabilitados. SUPERVISOR y CAJERO solo actúan como su sucursal.
func (p *Policy) Authorize(ctx context.Context, actor Actor, module, requestedBranch string) (Scope, error) {
	if actor.UserID == "" || !actor.knownRole() {
		return Scope{}, domain.ErrUnauthorized
	}
	privileged := actor.Privileged()
	if !privileged && actor.BranchID == "" {
		return Scope{}, domain.ErrUnauthorized
	}

	if module != "" && !privileged && p.modules != nil {
		enabled, err := p.modules.IsModuleEnabled(ctx, module)
		if err != nil {
			return Scope{}, err
		}
		if !enabled {
			return Scope{}, domain.ErrModuleDisabled
		}
	}

	branchID := actor.BranchID
	if requestedBranch != "" && requestedBranch != actor.BranchID {
		if !privileged {
			return Scope{}, domain.Forbidden("el rol " + actor.Role + " solo puede operar su propia sucursal")
		}
		branchID = requestedBranch
	}
	if branchID == "" {
		return Scope{}, domain.Invalid("branch_id", "indique la sucursal con la que opera")
	}

	return Scope{BranchID: branchID, Actor: actor, Privileged: privileged}, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

var _ repository.ModuleRepository = (*ModuleRepo)(nil)

// ModuleRepo estado administrativo de los módulos.
type ModuleRepo struct {
	q Querier
}

// NewModuleRepository construye el adaptador.
func NewModuleRepository(q Querier) *ModuleRepo {
	return &ModuleRepo{q: q}
}

// IsModuleEnabled consulta la tabla modules; un módulo sin fila está habilitado.
func (r *ModuleRepo) IsModuleEnabled(ctx context.Context, module string) (bool, error) {
	const query = `
		SELECT COALESCE((SELECT enabled FROM modules WHERE name = $1), true)`
	var enabled bool
	if err := r.q.QueryRow(ctx, query, module).Scan(&enabled); err != nil {
		return false, fmt.Errorf("check module %s: %w", module, err)
	}
	return enabled, nil
}

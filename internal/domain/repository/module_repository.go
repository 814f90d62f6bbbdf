package repository

import "context"

// ModuleRepository estado administrativo de los módulos (clearing, traslados, ingresos).
type ModuleRepository interface {
	IsModuleEnabled(ctx context.Context, module string) (bool, error)
}

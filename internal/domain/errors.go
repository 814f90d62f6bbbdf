package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidState      = errors.New("estado inválido para la operación")
	ErrModuleDisabled    = errors.New("módulo deshabilitado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError detalla qué campo falló y por qué. Envuelve ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indica qué entidad no existe. Envuelve ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ForbiddenError explica qué parte debía ejecutar la acción. Envuelve ErrForbidden.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// Forbidden construye un ForbiddenError.
func Forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

// StateError indica que la entidad no está en el estado requerido. Envuelve ErrInvalidState.
type StateError struct {
	Entity  string
	Current string
	Action  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("no se puede %s: %s en estado %s", e.Action, e.Entity, e.Current)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

// StockShortage faltante de un producto en una sucursal.
type StockShortage struct {
	ProductID string
	Available string
	Requested string
}

// InsufficientStockError lista los productos sin stock suficiente. Envuelve ErrInsufficientStock.
type InsufficientStockError struct {
	BranchID  string
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (disponible %s, solicitado %s)", s.ProductID, s.Available, s.Requested))
	}
	return "stock insuficiente en sucursal " + e.BranchID + ": " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

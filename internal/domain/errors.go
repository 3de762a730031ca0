package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrTooManyRequests    = errors.New("demasiadas solicitudes")
)

// RoleNotFoundError el nombre o id de rol no existe en el catálogo.
type RoleNotFoundError struct {
	Code string
}

func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("rol con código '%s' no encontrado", e.Code)
}

// InvalidLocationIndexError índice fuera del arreglo de ubicaciones enviado en el registro.
type InvalidLocationIndexError struct {
	Index int
	Count int
}

func (e *InvalidLocationIndexError) Error() string {
	return fmt.Sprintf("índice de ubicación %d fuera de rango (se enviaron %d ubicaciones)", e.Index, e.Count)
}

// DuplicateRoleAssignmentError el mismo rol (o el mismo par rol-ubicación) aparece dos veces en una solicitud.
type DuplicateRoleAssignmentError struct {
	Role       string
	LocationID string
}

func (e *DuplicateRoleAssignmentError) Error() string {
	if e.LocationID == "" {
		return fmt.Sprintf("el rol '%s' está repetido en la solicitud", e.Role)
	}
	return fmt.Sprintf("el rol '%s' está repetido para la ubicación '%s'", e.Role, e.LocationID)
}

// MultiplePrimaryRolesError más de una asignación marcada como principal.
type MultiplePrimaryRolesError struct {
	Count int
}

func (e *MultiplePrimaryRolesError) Error() string {
	return fmt.Sprintf("solo puede haber una asignación principal (se recibieron %d)", e.Count)
}

// TenantMismatchError el recurso pertenece a otro restaurante.
type TenantMismatchError struct {
	Resource string
	ID       string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf("%s '%s' no pertenece a este restaurante", e.Resource, e.ID)
}

// RoleNotAssignableError el llamador no tiene jerarquía suficiente para otorgar el rol.
type RoleNotAssignableError struct {
	Role string
}

func (e *RoleNotAssignableError) Error() string {
	return fmt.Sprintf("no tiene permisos para asignar el rol '%s'", e.Role)
}

// TransactionAbortedError envuelve un fallo de base de datos dentro de una transacción.
// La transacción ya se revirtió cuando se devuelve este error.
type TransactionAbortedError struct {
	Op  string
	Err error
}

func (e *TransactionAbortedError) Error() string {
	return fmt.Sprintf("transacción abortada (%s): %v", e.Op, e.Err)
}

func (e *TransactionAbortedError) Unwrap() error { return e.Err }

var sentinels = []error{
	ErrNotFound, ErrUserNotFound, ErrEmailAlreadyExists, ErrInvalidInput, ErrDuplicate,
	ErrUnauthorized, ErrForbidden, ErrConflict, ErrTooManyRequests,
}

// IsDomainError informa si err (o algo que envuelve) es un error de negocio conocido.
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	var (
		roleNF  *RoleNotFoundError
		idx     *InvalidLocationIndexError
		dup     *DuplicateRoleAssignmentError
		primary *MultiplePrimaryRolesError
		tenant  *TenantMismatchError
		assign  *RoleNotAssignableError
	)
	return errors.As(err, &roleNF) || errors.As(err, &idx) || errors.As(err, &dup) ||
		errors.As(err, &primary) || errors.As(err, &tenant) || errors.As(err, &assign)
}

// AbortTx normaliza el error devuelto por una transacción: los errores de negocio se
// devuelven tal cual y cualquier otro fallo se envuelve en TransactionAbortedError.
func AbortTx(op string, err error) error {
	if err == nil {
		return nil
	}
	var aborted *TransactionAbortedError
	if IsDomainError(err) || errors.As(err, &aborted) {
		return err
	}
	return &TransactionAbortedError{Op: op, Err: err}
}

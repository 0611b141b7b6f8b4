package domain

import "errors"

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
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrInvalidTransition se devuelve cuando un cambio de estado no está en la tabla de transiciones.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	// ErrTransactionTimeout la unidad de trabajo superó el tiempo máximo de transacción.
	ErrTransactionTimeout = errors.New("tiempo de transacción agotado")
)

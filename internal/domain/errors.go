package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Las capas superiores envuelven con fmt.Errorf("%w: detalle", ErrX) y comparan con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrValidation         = errors.New("datos inválidos")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvariantViolation = errors.New("la operación viola una invariante")
	ErrStorage            = errors.New("error de almacenamiento")
)

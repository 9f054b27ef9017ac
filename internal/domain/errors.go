package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Las capas superiores envuelven con fmt.Errorf("%w: detalle", ErrX) y comparan con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUpstream          = errors.New("servicio externo no disponible")
)

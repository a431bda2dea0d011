package dto

// Límites de paginación de los listados administrativos.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest paginación por limit/offset.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza la página: limit fuera de rango usa DefaultPageLimit, offset negativo 0.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 || p.Limit > MaxPageLimit {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (VALIDATION, NOT_FOUND, NO_ACTIVE_SHOP...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Multitienda-api/internal/domain"
)

// Sale venta registrada en una tienda. Product es texto libre (no FK a products).
// Registrar una venta no descuenta stock.
type Sale struct {
	ID        int64
	ShopID    string
	Product   string
	ItemsSold int64
	Total     decimal.Decimal
	Date      time.Time
}

// SaleInput datos para registrar una venta. Date cero = ahora.
type SaleInput struct {
	Product   string
	ItemsSold int64
	Total     decimal.Decimal
	Date      time.Time
}

// Normalize recorta el producto y valida cantidades.
func (in *SaleInput) Normalize() error {
	in.Product = strings.TrimSpace(in.Product)
	if in.Product == "" {
		return fmt.Errorf("%w: el producto de la venta es requerido", domain.ErrValidation)
	}
	return validateSaleNumbers(&in.ItemsSold, &in.Total)
}

// SalePatch actualización parcial de una venta (corrección).
type SalePatch struct {
	Product   *string
	ItemsSold *int64
	Total     *decimal.Decimal
	Date      *time.Time
}

// IsEmpty true si no trae ningún campo.
func (p SalePatch) IsEmpty() bool {
	return p.Product == nil && p.ItemsSold == nil && p.Total == nil && p.Date == nil
}

// Normalize valida los campos presentes.
func (p *SalePatch) Normalize() error {
	if p.Product != nil {
		product := strings.TrimSpace(*p.Product)
		if product == "" {
			return fmt.Errorf("%w: el producto de la venta no puede quedar vacío", domain.ErrValidation)
		}
		p.Product = &product
	}
	if p.Date != nil && p.Date.IsZero() {
		return fmt.Errorf("%w: fecha de venta inválida", domain.ErrValidation)
	}
	return validateSaleNumbers(p.ItemsSold, p.Total)
}

func validateSaleNumbers(items *int64, total *decimal.Decimal) error {
	if items != nil && *items <= 0 {
		return fmt.Errorf("%w: itemsSold debe ser mayor que cero", domain.ErrValidation)
	}
	if total != nil && total.IsNegative() {
		return fmt.Errorf("%w: total no puede ser negativo", domain.ErrValidation)
	}
	return nil
}

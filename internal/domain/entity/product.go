package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Multitienda-api/internal/domain"
)

// Product producto del inventario de una tienda.
// Siempre pertenece a exactamente una Shop; ninguna operación lo expone fuera de ella.
type Product struct {
	ID          int64
	ShopID      string
	Name        string
	Stock       int64
	Price       decimal.Decimal // precio de venta
	CostPrice   decimal.Decimal
	MinQuantity int64 // umbral de stock bajo
	CreatedAt   time.Time
}

// IsLowStock stock bajo: stock <= cantidad mínima.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinQuantity
}

// StockValue stock * precio; cero si el precio no es positivo.
func (p Product) StockValue() decimal.Decimal {
	if !p.Price.IsPositive() {
		return decimal.Zero
	}
	return p.Price.Mul(decimal.NewFromInt(p.Stock))
}

// ProductInput datos para crear un producto.
type ProductInput struct {
	Name        string
	Stock       int64
	Price       decimal.Decimal
	CostPrice   decimal.Decimal
	MinQuantity int64
}

// Normalize recorta el nombre y valida campos numéricos no negativos.
func (in *ProductInput) Normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: el nombre del producto es requerido", domain.ErrValidation)
	}
	return validateProductNumbers(&in.Stock, &in.Price, &in.CostPrice, &in.MinQuantity)
}

// ProductPatch actualización parcial: solo se aplican los campos no nil.
type ProductPatch struct {
	Name        *string
	Stock       *int64
	Price       *decimal.Decimal
	CostPrice   *decimal.Decimal
	MinQuantity *int64
}

// IsEmpty true si no trae ningún campo.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Stock == nil && p.Price == nil && p.CostPrice == nil && p.MinQuantity == nil
}

// Normalize valida los campos presentes con las mismas reglas que ProductInput.
func (p *ProductPatch) Normalize() error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return fmt.Errorf("%w: el nombre del producto no puede quedar vacío", domain.ErrValidation)
		}
		p.Name = &name
	}
	return validateProductNumbers(p.Stock, p.Price, p.CostPrice, p.MinQuantity)
}

func validateProductNumbers(stock *int64, price, cost *decimal.Decimal, minQty *int64) error {
	if stock != nil && *stock < 0 {
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrValidation)
	}
	if price != nil && price.IsNegative() {
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrValidation)
	}
	if cost != nil && cost.IsNegative() {
		return fmt.Errorf("%w: costPrice no puede ser negativo", domain.ErrValidation)
	}
	if minQty != nil && *minQty < 0 {
		return fmt.Errorf("%w: minQuantity no puede ser negativo", domain.ErrValidation)
	}
	return nil
}

// SummarizeStock calcula las métricas de inventario de una lista de productos.
func SummarizeStock(products []Product) StockMetrics {
	m := StockMetrics{
		TotalProducts:    int64(len(products)),
		TotalStockValue:  decimal.Zero,
		LowStockProducts: []Product{},
	}
	for _, p := range products {
		m.TotalStockItems += p.Stock
		m.TotalStockValue = m.TotalStockValue.Add(p.StockValue())
		if p.IsLowStock() {
			m.LowStockProducts = append(m.LowStockProducts, p)
		}
	}
	m.LowStockCount = len(m.LowStockProducts)
	return m
}

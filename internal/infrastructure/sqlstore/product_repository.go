package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, shopId, name, stock, price, costPrice, minQuantity, createdAt`

// ProductRepo implementación del puerto ProductRepository. Toda consulta filtra por shopId.
type ProductRepo struct {
	q   Querier
	now func() time.Time
}

// NewProductRepository construye el repositorio.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q, now: time.Now}
}

// GetAll productos de la tienda, más recientes primero (orden de inserción).
func (r *ProductRepo) GetAll(ctx context.Context, shopID string) ([]entity.Product, error) {
	return r.list(ctx, "list products", `WHERE shopId = ? ORDER BY id DESC`, shopID)
}

// LowStock productos con stock <= minQuantity, los más críticos primero.
func (r *ProductRepo) LowStock(ctx context.Context, shopID string) ([]entity.Product, error) {
	return r.list(ctx, "list low stock", `WHERE shopId = ? AND stock <= minQuantity ORDER BY stock ASC, id DESC`, shopID)
}

// StockMetrics métricas de inventario; los importes se suman en Go con precisión decimal completa.
func (r *ProductRepo) StockMetrics(ctx context.Context, shopID string) (entity.StockMetrics, error) {
	products, err := r.GetAll(ctx, shopID)
	if err != nil {
		return entity.StockMetrics{}, err
	}
	return entity.SummarizeStock(products), nil
}

// Insert valida y persiste un producto en la tienda.
func (r *ProductRepo) Insert(ctx context.Context, shopID string, in entity.ProductInput) (*entity.Product, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	p := &entity.Product{
		ShopID:      shopID,
		Name:        in.Name,
		Stock:       in.Stock,
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		MinQuantity: in.MinQuantity,
		CreatedAt:   utc(r.now()),
	}
	query := r.q.Rebind(`
		INSERT INTO products (shopId, name, stock, price, costPrice, minQuantity, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := r.q.QueryRowxContext(ctx, query,
		p.ShopID, p.Name, p.Stock, p.Price, p.CostPrice, p.MinQuantity, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return nil, storageErr("insert product", err)
	}
	return p, nil
}

// Update aplica solo los campos presentes. Patch vacío o id de otra tienda: no-op.
func (r *ProductRepo) Update(ctx context.Context, shopID string, id int64, patch entity.ProductPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := patch.Normalize(); err != nil {
		return err
	}

	var (
		sets []string
		args []interface{}
	)
	if patch.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Stock != nil {
		sets, args = append(sets, "stock = ?"), append(args, *patch.Stock)
	}
	if patch.Price != nil {
		sets, args = append(sets, "price = ?"), append(args, *patch.Price)
	}
	if patch.CostPrice != nil {
		sets, args = append(sets, "costPrice = ?"), append(args, *patch.CostPrice)
	}
	if patch.MinQuantity != nil {
		sets, args = append(sets, "minQuantity = ?"), append(args, *patch.MinQuantity)
	}
	args = append(args, id, shopID)

	query := r.q.Rebind(`UPDATE products SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND shopId = ?`)
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return storageErr("update product", err)
	}
	return nil
}

// Delete borra el producto de la tienda; idempotente.
func (r *ProductRepo) Delete(ctx context.Context, shopID string, id int64) error {
	query := r.q.Rebind(`DELETE FROM products WHERE id = ? AND shopId = ?`)
	if _, err := r.q.ExecContext(ctx, query, id, shopID); err != nil {
		return storageErr("delete product", err)
	}
	return nil
}

func (r *ProductRepo) list(ctx context.Context, op, where string, args ...interface{}) ([]entity.Product, error) {
	query := r.q.Rebind(`SELECT ` + productColumns + ` FROM products ` + where)
	rows, err := r.q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	list := []entity.Product{}
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.ShopID, &p.Name, &p.Stock, &p.Price, &p.CostPrice, &p.MinQuantity, &p.CreatedAt); err != nil {
			return nil, storageErr("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return list, nil
}

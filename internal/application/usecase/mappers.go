package usecase

import (
	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/application/shopdata"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
)

// Conversión de entidades a DTOs. Los importes se redondean a 2 decimales solo aquí.

// ToShopResponse convierte una tienda; active indica si es la tienda activa del usuario.
func ToShopResponse(s entity.Shop, active bool) dto.ShopResponse {
	return dto.ShopResponse{
		ID:        s.ID,
		Name:      s.Name,
		OwnerID:   s.OwnerID,
		Active:    active,
		CreatedAt: s.CreatedAt,
	}
}

// ToShopList convierte la lista de tiendas marcando la activa.
func ToShopList(shops []entity.Shop, activeID string) dto.ShopListResponse {
	items := make([]dto.ShopResponse, 0, len(shops))
	for _, s := range shops {
		items = append(items, ToShopResponse(s, s.ID == activeID))
	}
	return dto.ShopListResponse{Items: items, ActiveShopID: activeID}
}

// ToUserResponse convierte un usuario (sin hash de password).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		DocumentType:   u.DocumentType,
		DocumentNumber: u.DocumentNumber,
		Address:        u.Address,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
	}
}

func toProductResponse(p entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		ShopID:      p.ShopID,
		Name:        p.Name,
		Stock:       p.Stock,
		Price:       p.Price.Round(2),
		CostPrice:   p.CostPrice.Round(2),
		MinQuantity: p.MinQuantity,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
	}
}

func toProductList(list []entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toProductResponse(p))
	}
	return items
}

func toSaleResponse(s entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:        s.ID,
		ShopID:    s.ShopID,
		Product:   s.Product,
		ItemsSold: s.ItemsSold,
		Total:     s.Total.Round(2),
		Date:      s.Date,
	}
}

func toSaleList(list []entity.Sale) []dto.SaleResponse {
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSaleResponse(s))
	}
	return items
}

func toTotals(t entity.SalesTotals) dto.SalesTotalsResponse {
	return dto.SalesTotalsResponse{Total: t.Total.Round(2), Items: t.Items, Count: t.Count}
}

func toWeekly(w entity.WeeklySummary) dto.WeeklySummaryResponse {
	return dto.WeeklySummaryResponse{SalesTotalsResponse: toTotals(w.SalesTotals), AvgTicket: w.AvgTicket.Round(2)}
}

// ToDashboardDTO convierte el snapshot del dashboard.
func ToDashboardDTO(m *entity.DashboardMetrics) dto.DashboardMetricsDTO {
	top := make([]dto.TopProductDTO, 0, len(m.TopProducts))
	for _, p := range m.TopProducts {
		top = append(top, dto.TopProductDTO{Name: p.Name, TotalSold: p.TotalSold, Revenue: p.Revenue.Round(2)})
	}
	series := make([]dto.DailySalesDTO, 0, len(m.SalesLast30Days))
	for _, d := range m.SalesLast30Days {
		series = append(series, dto.DailySalesDTO{Date: d.Date, Sales: d.Sales.Round(2)})
	}
	failed := m.Failed
	if failed == nil {
		failed = []string{}
	}
	return dto.DashboardMetricsDTO{
		ShopID:        m.ShopID,
		GeneratedAt:   m.GeneratedAt,
		Daily:         toTotals(m.Daily),
		Weekly:        toWeekly(m.Weekly),
		Monthly:       toTotals(m.Monthly),
		AverageTicket: m.AverageTicket.Round(2),
		Stock: dto.StockMetricsDTO{
			TotalProducts:    m.Stock.TotalProducts,
			TotalStockItems:  m.Stock.TotalStockItems,
			TotalStockValue:  m.Stock.TotalStockValue.Round(2),
			LowStockCount:    m.Stock.LowStockCount,
			LowStockProducts: toProductList(m.Stock.LowStockProducts),
		},
		TopProducts:     top,
		SalesLast30Days: series,
		Partial:         m.Partial(),
		Failed:          failed,
	}
}

// ToOverviewDTO convierte el snapshot en caché de la tienda activa.
func ToOverviewDTO(shop entity.Shop, snap *shopdata.Snapshot) dto.OverviewDTO {
	return dto.OverviewDTO{
		Shop:        ToShopResponse(shop, true),
		RecentSales: toSaleList(snap.RecentSales),
		Daily:       toTotals(snap.Daily),
		Weekly:      toWeekly(snap.Weekly),
		Products:    toProductList(snap.Products),
		LowStock:    toProductList(snap.LowStock),
		LoadedAt:    snap.LoadedAt,
	}
}

package events

import (
	"context"

	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// NewAuditSubscriber registra cada cambio de tienda activa en el log de auditoría.
func NewAuditSubscriber(log *logger.Logger) Handler {
	audit := log.Component("audit")
	return func(_ context.Context, ev ShopChanged) error {
		audit.Info().
			Str("event", "active_shop_changed").
			Str("user_id", ev.UserID).
			Str("shop_id", ev.ShopID).
			Str("previous_shop_id", ev.PreviousShopID).
			Str("reason", ev.Reason).
			Time("at", ev.At).
			Msg("tienda activa cambiada")
		return nil
	}
}

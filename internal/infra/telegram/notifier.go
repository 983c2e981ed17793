package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rcondori/cafe-inventory/internal/domain/stock"
)

// Notifier sends low-stock alerts to a fixed chat. One message per breach,
// no dedup: repeated breaches repeat the alert.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

func New(token string, chatID int64, log *slog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Notifier{api: api, chatID: chatID, log: log}, nil
}

func (n *Notifier) LowStock(_ context.Context, a stock.Alert) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatAlert(a))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return err
	}
	n.log.Info("low stock alert sent", "material", a.MaterialName, "stock", a.CurrentStock)
	return nil
}

// FormatAlert builds the alert text: material, current level, threshold and
// the suggested reorder in purchase units.
func FormatAlert(a stock.Alert) string {
	return fmt.Sprintf(
		"🚨 *ALERTA DE STOCK BAJO* 🚨\n\n"+
			"Insumo: *%s*\n"+
			"Stock Actual: %g %s\n"+
			"Nivel de Alerta: %g %s\n\n"+
			"🛒 *PEDIDO SUGERIDO:* %g %s",
		a.MaterialName,
		a.CurrentStock, a.UsageUnit,
		a.MinStockAlert, a.UsageUnit,
		a.OrderQuantity, a.PurchaseUnit,
	)
}

package alert

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"aletheia/internal/config"
	"aletheia/internal/models"
)

// Notifier pushes attack detections to a Telegram chat. A nil Notifier is
// valid and drops everything, so callers never branch on alert config.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewNotifier creates a Telegram notifier. Returns nil, nil when alerts are
// disabled or no token is configured.
func NewNotifier(cfg *config.Config, logger *zap.Logger) (*Notifier, error) {
	if !cfg.Alerts.Enabled || cfg.Alerts.TelegramBotToken == "" {
		logger.Info("Telegram alerts are disabled (alerts.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Alerts.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram alert bot authorized", zap.String("username", botAPI.Self.UserName))

	return &Notifier{
		api:    botAPI,
		chatID: cfg.Alerts.TelegramChatID,
		logger: logger,
	}, nil
}

// NotifyThreat sends a threat event alert. Send failures are logged and
// swallowed; an alert must never fail a verification request.
func (n *Notifier) NotifyThreat(node *models.Node, event *models.ThreatEvent) {
	if n == nil {
		return
	}

	description := event.Description
	if len(description) > 300 {
		description = description[:300] + "..."
	}

	text := fmt.Sprintf(
		"Attack detected\n\n"+
			"Node: %s (id %d)\n"+
			"Event: %s\n"+
			"Authenticity score: %d\n\n"+
			"%s",
		node.Name,
		node.ID,
		event.EventType,
		node.AuthenticityScore,
		description,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send threat alert",
			zap.String("event_id", event.ID),
			zap.Int64("node_id", node.ID),
			zap.Error(err),
		)
		return
	}

	n.logger.Info("Threat alert sent",
		zap.String("event_id", event.ID),
		zap.Int64("node_id", node.ID),
	)
}

package delivery

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/retry"
)

// Sender доставляет документы и сообщения клиенту. Отправка больших
// файлов по сети повторяется с ограниченным числом попыток.
type Sender interface {
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// botAPI часть клиента Telegram, которой пользуется отправитель
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender отправляет документы через Bot API
type TelegramSender struct {
	bot     botAPI
	retrier *retry.Retrier
}

// NewTelegramSender создает отправителя поверх клиента Bot API
func NewTelegramSender(bot botAPI) *TelegramSender {
	retrier := retry.New(
		"telegram_delivery",
		logger.Log,
		retry.WithMaxAttempts(3),
		retry.WithInitialDelay(200*time.Millisecond),
		retry.WithMaxDelay(2*time.Second),
	)
	return &TelegramSender{bot: bot, retrier: retrier}
}

// SendDocument отправляет документ в чат клиента
func (s *TelegramSender) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  filename,
			Bytes: data,
		})
		doc.Caption = caption
		doc.ParseMode = tgbotapi.ModeHTML

		_, err := s.bot.Send(doc)
		return err
	})
	if err != nil {
		metrics.DeliveryAttemptsTotal.WithLabelValues("telegram", "error").Inc()
		return fmt.Errorf("send document to chat %d: %w", chatID, err)
	}

	metrics.DeliveryAttemptsTotal.WithLabelValues("telegram", "success").Inc()
	logger.Info("document delivered",
		logger.Field("filename", filename),
	)
	return nil
}

// SendMessage отправляет текстовое сообщение в чат клиента
func (s *TelegramSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		_, err := s.bot.Send(msg)
		return err
	})
	if err != nil {
		metrics.DeliveryAttemptsTotal.WithLabelValues("telegram", "error").Inc()
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	metrics.DeliveryAttemptsTotal.WithLabelValues("telegram", "success").Inc()
	return nil
}

// ContractCaption подпись к отправляемому договору
func ContractCaption(contractNumber string) string {
	return fmt.Sprintf("📄 Договор №%s\n\nПроверьте данные и введите код из email для подписания.", contractNumber)
}

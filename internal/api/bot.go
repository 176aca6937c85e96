package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"recognition-bot/internal/container"
	"recognition-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для распознавания крепежа на фотографиях.

📸 Отправьте мне фото, и я скажу, что на нём: болт, гайка или шайба.
Если деталей несколько, я постараюсь найти каждую.

📋 Команды:
/check — начать распознавание
/history — последние результаты
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото одной или нескольких деталей
2️⃣ Бот решит, искать один объект или несколько
3️⃣ Вы получите список найденных деталей с уверенностью

💡 Рекомендации:
• Снимайте при хорошем освещении
• Используйте однотонный фон
• Не кладите детали вплотную друг к другу

📋 Команды:
/check — начать распознавание
/history — последние результаты
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото детали."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для нового распознавания."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото детали."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается, подождите."
	msgNothingFound    = "🤷 Не удалось распознать ни одной детали."
	msgHistoryEmpty    = "🗂 История пуста. Отправьте фото детали."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgUnavailable     = "⚠️ Сервис распознавания временно недоступен. Попробуйте позже."
)

const (
	historySize     = 5
	downloadTimeout = 30 * time.Second
)

// Bot представляет Telegram-бота
type Bot struct {
	api    *tgbotapi.BotAPI
	app    *container.Container
	client *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, app *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("telegram: authorized", "account", api.Self.UserName)

	return &Bot{
		api:    api,
		app:    app,
		client: &http.Client{Timeout: downloadTimeout},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		slog.Error("telegram: get user", "user", msg.From.ID, "error", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		if _, err := b.app.UserService.BeginCheck(ctx, user.ID, user.ChatID); err != nil {
			slog.Error("telegram: begin check", "user", user.ID, "error", err)
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		if _, err := b.app.UserService.Cancel(ctx, user.ID, user.ChatID); err != nil {
			slog.Error("telegram: cancel", "user", user.ID, "error", err)
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	case "history":
		recs, err := b.app.RecognitionService.History(ctx, user.CallerID(), historySize, 0)
		if err != nil {
			slog.Error("telegram: history", "user", user.ID, "error", err)
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		b.sendMessage(msg.Chat.ID, formatHistory(recs))

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.State == entity.StateProcessing {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	b.setState(ctx, user, entity.StateProcessing)
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		slog.Error("telegram: download photo", "user", user.ID, "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.setState(ctx, user, entity.StateMainMenu)
		return
	}

	rec, err := b.app.RecognitionService.Recognize(ctx, imageData, user.CallerID())
	if err != nil {
		slog.Error("telegram: recognize", "user", user.ID, "bytes", len(imageData), "error", err)
		if errors.Is(err, entity.ErrClassifierUnavailable) {
			b.sendMessage(msg.Chat.ID, msgUnavailable)
		} else {
			b.sendMessage(msg.Chat.ID, msgProcessingError)
		}
		b.setState(ctx, user, entity.StateMainMenu)
		return
	}

	slog.Info("telegram: recognized",
		"user", user.ID,
		"id", rec.ID,
		"mode", rec.Mode,
		"objects", len(rec.Objects),
		"fallback", rec.Fallback,
	)

	if _, err := b.app.UserService.Complete(ctx, user.ID, user.ChatID, rec.ID); err != nil {
		slog.Error("telegram: complete", "user", user.ID, "error", err)
	}

	b.sendMessage(msg.Chat.ID, formatRecognition(rec))
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	if _, err := b.app.UserService.SetState(ctx, user.ID, user.ChatID, state); err != nil {
		slog.Error("telegram: save state", "user", user.ID, "state", state, "error", err)
		return
	}
	user.SetState(state)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("telegram: send message", "chat", chatID, "error", err)
	}
}

package telegram

import (
	"context"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docchat/internal/auth"
	"docchat/internal/llm"
	"docchat/internal/session"
)

const resetCmd = "reset_ctx"

type Bot struct {
	api        *tgbotapi.BotAPI
	s          sender
	authSvc    *auth.Service
	llmClient  llm.Client
	sessions   *session.Manager
	llmTimeout time.Duration

	// download fetches upload bytes by Telegram file ID
	download func(fileID string) ([]byte, error)

	mu       sync.Mutex
	inFlight map[int64]bool
}

func New(botToken string, authSvc *auth.Service, llmClient llm.Client, sessions *session.Manager, llmTimeout time.Duration) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := &Bot{
		api:        api,
		s:          botAPISender{api: api},
		authSvc:    authSvc,
		llmClient:  llmClient,
		sessions:   sessions,
		llmTimeout: llmTimeout,
		inFlight:   make(map[int64]bool),
	}
	b.download = b.downloadFile
	return b, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
			continue
		}
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Data == resetCmd && cb.Message != nil {
		b.sessions.Reset(cb.Message.Chat.ID)
		b.sendMessage(cb.Message.Chat.ID, "Context cleared.")
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// tryAcquire moves the chat from idle to processing. A chat with a question
// already in flight refuses new ones instead of queuing them.
func (b *Bot) tryAcquire(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFlight[chatID] {
		return false
	}
	b.inFlight[chatID] = true
	return true
}

func (b *Bot) release(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, chatID)
}

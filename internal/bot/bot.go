package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/wanokuni/internal/ai"
	"github.com/example/wanokuni/internal/database"
	"github.com/example/wanokuni/internal/engine"
	"github.com/example/wanokuni/internal/session"
)

// Bot drives lessons and reviews over Telegram and delivers due-review
// reminders. One chat maps to one learner.
type Bot struct {
	api      *tgbotapi.BotAPI
	engine   *engine.Engine
	progress *database.ProgressRepository
	mnemonic *ai.MnemonicClient
	config   *BotConfig

	// Active sessions per chat. A chat runs at most one session at a
	// time; starting a new one abandons the old presentation state
	// (already-submitted answers stay applied).
	reviews map[int64]*session.Review
	lessons map[int64]*session.Lesson
}

// NewBot creates a bot from the TELEGRAM_BOT_TOKEN environment variable.
func NewBot(token string, eng *engine.Engine, progress *database.ProgressRepository) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	var mnemonic *ai.MnemonicClient
	if os.Getenv("OPENAI_API_KEY") != "" {
		mnemonic, err = ai.New()
		if err != nil {
			log.Printf("bot: mnemonic generation disabled: %v", err)
		}
	}

	return &Bot{
		api:      api,
		engine:   eng,
		progress: progress,
		mnemonic: mnemonic,
		config:   DefaultConfig(),
		reviews:  make(map[int64]*session.Review),
		lessons:  make(map[int64]*session.Lesson),
	}, nil
}

// Start consumes updates until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	log.Printf("bot: authorized as %s", b.api.Self.UserName)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop shuts down the update stream.
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

// SendReminder implements the scheduler's Notifier: it pings the bound
// chat about waiting reviews.
func (b *Bot) SendReminder(dueReviews, pendingLessons int) error {
	chatID, err := b.progress.ChatID()
	if err != nil {
		return err
	}
	if chatID == 0 {
		// Nobody ran /start yet.
		return nil
	}

	text := fmt.Sprintf("⏰ %d review(s) are waiting for you. Send /reviews to start.", dueReviews)
	if pendingLessons > 0 {
		text += fmt.Sprintf("\n📚 You also have %d lesson(s) queued - /lessons.", pendingLessons)
	}
	return b.send(chatID, text)
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	// Plain text is an answer to whatever session is running.
	b.handleAnswer(msg.Chat.ID, msg.Text)
}

func (b *Bot) send(chatID int64, text string) error {
	m := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(m); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) sendf(chatID int64, format string, args ...interface{}) {
	if err := b.send(chatID, fmt.Sprintf(format, args...)); err != nil {
		log.Printf("bot: %v", err)
	}
}

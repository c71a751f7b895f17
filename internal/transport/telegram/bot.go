package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/jdondlinger/groqee/internal/config"
	"github.com/jdondlinger/groqee/internal/service/companion"
	"github.com/jdondlinger/groqee/pkg/conv"
	"github.com/jdondlinger/groqee/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	companion *companion.Companion
	ownerID   int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	comp *companion.Companion,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		companion: comp,
		ownerID:   cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)
	b.Handle("/profile", bot.handleProfile)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	reply, err := b.companion.Converse(ctx, c.Text())
	if err != nil {
		// The reply is still a displayable fallback; log and send it anyway.
		logger.Warn().Err(err).Msg("conversation turn degraded")
	}

	htmlContent := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(reply)))
	if htmlContent == "" {
		return nil
	}
	if serr := c.Send(htmlContent, tele.ModeHTML); serr != nil {
		logger.Error().Err(serr).Msg("failed to send telegram message")
		return serr
	}
	return nil
}

func (b *Bot) handleProfile(c tele.Context) error {
	p := b.companion.Profile()
	if p.IsEmpty() {
		return c.Send("I haven't learned anything about you yet.")
	}

	var sb strings.Builder
	if p.Name != "" {
		fmt.Fprintf(&sb, "Name: %s\n", p.Name)
	}
	if p.Job != "" {
		fmt.Fprintf(&sb, "Job: %s\n", p.Job)
	}
	if len(p.Hobbies) > 0 {
		fmt.Fprintf(&sb, "Hobbies: %s\n", strings.Join(p.Hobbies, ", "))
	}
	if len(p.Goals) > 0 {
		fmt.Fprintf(&sb, "Goals: %s\n", strings.Join(p.Goals, ", "))
	}
	if len(p.Challenges) > 0 {
		fmt.Fprintf(&sb, "Challenges: %s\n", strings.Join(p.Challenges, ", "))
	}
	return c.Send(strings.TrimSpace(sb.String()))
}
